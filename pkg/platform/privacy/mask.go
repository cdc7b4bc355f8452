// Package privacy provides helpers for handling personally identifiable
// information (PII) before it reaches logs, metrics labels or API responses.
package privacy

import "strings"

// MaskMiddle keeps the first left and last right characters of s and replaces
// every character in between with replacement.
//
// Negative counts are treated as zero. When left+right covers the whole value
// nothing is masked and s is returned unchanged. Counting is per rune, so
// multi-byte input is never split.
//
// Example:
//
//	MaskMiddle("11010519491231002X", "*", 4, 3) // "1101***********02X"
func MaskMiddle(s, replacement string, left, right int) string {
	left = max(left, 0)
	right = max(right, 0)

	runes := []rune(s)
	hidden := len(runes) - left - right
	if hidden <= 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + hidden*len(replacement))
	b.WriteString(string(runes[:left]))
	b.WriteString(strings.Repeat(replacement, hidden))
	b.WriteString(string(runes[left+hidden:]))
	return b.String()
}

// RedactIdentifier masks an identifier for log output, keeping a short
// prefix and suffix so support staff can correlate entries.
// Short values are fully redacted.
func RedactIdentifier(s string) string {
	if len([]rune(s)) < 8 {
		return strings.Repeat("*", len([]rune(s)))
	}
	return MaskMiddle(s, "*", 4, 3)
}
