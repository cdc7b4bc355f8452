package domain

import (
	"log/slog"
	"time"

	dErrors "idcard/pkg/domain-errors"
	"idcard/pkg/platform/privacy"
)

// DefaultArea is the area hint recorded when none is given.
const DefaultArea = "zh"

// Masking defaults used by Masked.
const (
	DefaultMaskReplacement = "*"
	DefaultMaskLeft        = 4
	DefaultMaskRight       = 3
)

// IdentityNumber is a validated identity number.
//
// Invariants:
//   - Obtainable only through Parse (or Upgrade on a parsed value)
//   - code is 15 or 18 characters and passed Validate
//   - birthDate is the date embedded in code, computed once at Parse
//
// The zero value represents "no number"; IsZero reports it. IdentityNumber
// is immutable and safe for concurrent use.
type IdentityNumber struct {
	code      string
	area      string
	birthDate time.Time
}

type options struct {
	area string
}

// Option configures Parse.
type Option func(*options)

// WithArea records an area hint on the parsed number. The hint does not
// affect validation or derivation.
func WithArea(area string) Option {
	return func(o *options) {
		o.area = area
	}
}

// Parse normalizes raw, validates it and returns the identity number.
// Failure returns an error wrapping ErrInvalidIdentityNumber with
// CodeValidation; the validator is a pure predicate so no further detail is
// attached.
func Parse(raw string, registry ProvinceRegistry, opts ...Option) (IdentityNumber, error) {
	o := options{area: DefaultArea}
	for _, opt := range opts {
		opt(&o)
	}

	code := NewCode(raw)
	birthDate, ok := validate(code.value, registry)
	if !ok {
		return IdentityNumber{}, dErrors.Wrap(ErrInvalidIdentityNumber, dErrors.CodeValidation,
			"identity number failed validation")
	}
	return IdentityNumber{
		code:      code.value,
		area:      o.area,
		birthDate: birthDate,
	}, nil
}

// MustParse is like Parse but panics on failure.
// Use only in tests or when the value is known to be valid.
func MustParse(raw string, registry ProvinceRegistry, opts ...Option) IdentityNumber {
	n, err := Parse(raw, registry, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Value returns the full normalized number. Prefer String or Masked anywhere
// the value may be displayed or logged.
func (n IdentityNumber) Value() string {
	return n.code
}

// String returns the masked form so numbers formatted with %v or %s do not
// leak into logs.
func (n IdentityNumber) String() string {
	return n.Masked()
}

// LogValue implements slog.LogValuer with the masked form.
func (n IdentityNumber) LogValue() slog.Value {
	return slog.StringValue(n.Masked())
}

// Len returns 18 or 15 for a parsed number and 0 for the zero value.
func (n IdentityNumber) Len() int {
	return len(n.code)
}

// Legacy reports whether the number uses the 15-character format, which is
// validated structurally and carries no check character.
func (n IdentityNumber) Legacy() bool {
	return len(n.code) == LengthLegacy
}

// Area returns the area hint given at Parse.
func (n IdentityNumber) Area() string {
	return n.area
}

// IsZero reports whether n is the zero value.
func (n IdentityNumber) IsZero() bool {
	return n.code == ""
}

// Mask keeps the first left and last right characters and replaces the rest
// with replacement repeated once per hidden character. When left+right is at
// least the number length nothing is masked.
func (n IdentityNumber) Mask(replacement string, left, right int) string {
	return privacy.MaskMiddle(n.code, replacement, left, right)
}

// Masked returns Mask(DefaultMaskReplacement, DefaultMaskLeft, DefaultMaskRight).
func (n IdentityNumber) Masked() string {
	return n.Mask(DefaultMaskReplacement, DefaultMaskLeft, DefaultMaskRight)
}
