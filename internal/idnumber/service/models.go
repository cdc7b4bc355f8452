package service

import (
	"time"

	"idcard/internal/idnumber/domain"
)

// Format names the length family of an identity number.
type Format string

const (
	FormatCurrent Format = "current" // 18 characters, checksum-protected
	FormatLegacy  Format = "legacy"  // 15 characters, structural checks only
)

func formatOf(n domain.IdentityNumber) Format {
	if n.Legacy() {
		return FormatLegacy
	}
	return FormatCurrent
}

// Validation is the outcome of a validity check. Format and Checksum are
// empty when the number is invalid.
type Validation struct {
	Valid    bool
	Format   Format
	Checksum bool
}

// InspectRequest asks for every derived attribute of a number.
type InspectRequest struct {
	IDNumber string
	// RegionSeparator joins the division names as given; an empty separator
	// concatenates them.
	RegionSeparator string
	// ReferenceDate is the "today" for the age calculation. Zero means the
	// request time.
	ReferenceDate time.Time
}

// Profile holds the attributes derived from a valid number. The raw number
// is carried only in masked form.
type Profile struct {
	Masked        string
	Format        Format
	Checksum      bool
	BirthDate     time.Time
	Age           int
	Gender        domain.Gender
	GenderCode    int
	Constellation domain.Sign
	Region        string
}

// BirthRequest selects the projections returned by Birth.
type BirthRequest struct {
	IDNumber string
	Year     domain.YearFormat
	Month    domain.MonthFormat
	Day      domain.DayFormat
}

// BirthParts are the formatted birth date components.
type BirthParts struct {
	Year  string
	Month string
	Day   string
}

// MaskRequest configures Mask.
type MaskRequest struct {
	IDNumber    string
	Replacement string
	Left        int
	Right       int
}
