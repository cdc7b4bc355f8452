package domain

import (
	"fmt"
	"strings"

	dErrors "idcard/pkg/domain-errors"
)

// DefaultRegionSeparator joins region names in Region.
const DefaultRegionSeparator = " "

// RegionTable resolves a 6-digit administrative division code to its name.
type RegionTable interface {
	RegionName(code string) (string, bool)
}

// RegionNames is a map-backed RegionTable, typically holding the names
// resolved for a single number's RegionKeys.
type RegionNames map[string]string

// RegionName implements RegionTable.
func (r RegionNames) RegionName(code string) (string, bool) {
	name, ok := r[code]
	return name, ok
}

// RegionKeys are the three lookup codes derived from a number's first six
// digits.
type RegionKeys struct {
	Province   string // XX0000
	Prefecture string // XXXX00
	District   string // XXXXXX
}

// All returns the keys from the broadest division to the narrowest.
func (k RegionKeys) All() []string {
	return []string{k.Province, k.Prefecture, k.District}
}

// RegionKeys derives the province, prefecture and district codes.
func (n IdentityNumber) RegionKeys() RegionKeys {
	if len(n.code) < 6 {
		return RegionKeys{}
	}
	district := n.code[:6]
	return RegionKeys{
		Province:   district[:2] + "0000",
		Prefecture: district[:4] + "00",
		District:   district,
	}
}

// Region resolves the province, prefecture and district names through table
// and joins them with sep. A code absent from table yields an error wrapping
// ErrRegionNotFound; the number itself remains valid.
func (n IdentityNumber) Region(table RegionTable, sep string) (string, error) {
	keys := n.RegionKeys().All()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		name, ok := table.RegionName(key)
		if !ok {
			return "", dErrors.Wrap(ErrRegionNotFound, dErrors.CodeNotFound,
				fmt.Sprintf("no region entry for code %s", key))
		}
		names = append(names, name)
	}
	return strings.Join(names, sep), nil
}
