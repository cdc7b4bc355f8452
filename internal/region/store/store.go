// Package store holds region table backends.
//
// Every backend resolves a 6-digit administrative division code to a name and
// returns sentinel.ErrNotFound (possibly wrapped) for unknown codes:
//
//   - InMemoryTable: map-backed, seeded from the embedded regions.csv fixture.
//     It also implements domain.RegionTable and domain.ProvinceRegistry.
//   - PostgresTable: the regions table in PostgreSQL.
//   - RedisCache: read-through cache in front of any Source.
//   - FallbackSource: circuit breaker switching to a local table on outage.
//
// LoadFile reads operator-supplied overrides from YAML.
package store

import (
	"context"
	"regexp"
)

// Source resolves a single region code.
type Source interface {
	Lookup(ctx context.Context, code string) (string, error)
}

// Loader returns every entry of a region table.
type Loader interface {
	All(ctx context.Context) (map[string]string, error)
}

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ValidCode reports whether code is a 6-digit division code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}
