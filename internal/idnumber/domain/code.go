package domain

import "strings"

// Supported identity number lengths.
const (
	LengthCurrent = 18
	LengthLegacy  = 15
)

// Code is a normalized, not yet validated identity number string.
type Code struct {
	value string
}

// NewCode trims surrounding whitespace and upper-cases raw so that a
// lower-case check character 'x' compares equal to 'X'.
func NewCode(raw string) Code {
	return Code{value: strings.ToUpper(strings.TrimSpace(raw))}
}

// String returns the normalized value.
func (c Code) String() string {
	return c.value
}

// Len returns the length in bytes of the normalized value.
func (c Code) Len() int {
	return len(c.value)
}

// IsZero reports whether the normalized value is empty.
func (c Code) IsZero() bool {
	return c.value == ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isPrintableASCII reports whether every byte of s is a visible ASCII
// character, so that byte length equals character count.
func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
