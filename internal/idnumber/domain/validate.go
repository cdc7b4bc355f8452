package domain

import (
	"strconv"
	"time"
)

// legacyCentury prefixes the two-digit year of 15-character numbers.
const legacyCentury = "19"

// ProvinceRegistry reports whether a 6-digit prefix is a known administrative
// division code. It is consulted only for 15-character numbers.
type ProvinceRegistry interface {
	Known(code string) bool
}

// ProvinceRegistryFunc adapts a function to ProvinceRegistry.
type ProvinceRegistryFunc func(code string) bool

// Known calls f(code).
func (f ProvinceRegistryFunc) Known(code string) bool {
	return f(code)
}

// Validate reports whether code is a well-formed identity number. It never
// panics. A nil registry rejects every 15-character number.
func Validate(code Code, registry ProvinceRegistry) bool {
	_, ok := validate(code.value, registry)
	return ok
}

// validate returns the embedded birth date when s is valid.
func validate(s string, registry ProvinceRegistry) (time.Time, bool) {
	switch len(s) {
	case LengthCurrent:
		return validateCurrent(s)
	case LengthLegacy:
		return validateLegacy(s, registry)
	default:
		return time.Time{}, false
	}
}

func validateCurrent(s string) (time.Time, bool) {
	body := s[:bodyLength]
	if !isDigits(body) {
		return time.Time{}, false
	}
	if s[bodyLength] != checksum(body) {
		return time.Time{}, false
	}
	return parseDate(s[6:10], s[10:12], s[12:14])
}

// validateLegacy leaves the sequence characters (12-14) unconstrained
// beyond being three visible ASCII characters.
func validateLegacy(s string, registry ProvinceRegistry) (time.Time, bool) {
	if registry == nil || !isDigits(s[:12]) || !isPrintableASCII(s[12:]) {
		return time.Time{}, false
	}
	if !registry.Known(s[:6]) {
		return time.Time{}, false
	}
	return parseDate(legacyCentury+s[6:8], s[8:10], s[10:12])
}

// parseDate builds a UTC date from digit strings and rejects values that
// time.Date would normalize (month 13, February 30, ...).
func parseDate(year, month, day string) (time.Time, bool) {
	if !isDigits(year) || !isDigits(month) || !isDigits(day) {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
