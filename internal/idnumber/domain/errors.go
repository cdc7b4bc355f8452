package domain

import "errors"

// Sentinel error kinds. Functions in this package return them wrapped in a
// coded error from pkg/domain-errors, so both errors.Is and dErrors.HasCode
// work on the result.
var (
	// ErrInvalidIdentityNumber indicates the input failed validation.
	ErrInvalidIdentityNumber = errors.New("invalid identity number")

	// ErrInvalidArgument indicates a caller-supplied option (format token,
	// checksum body) is outside the accepted set.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRegionNotFound indicates a structurally valid number whose region
	// code has no entry in the region table.
	ErrRegionNotFound = errors.New("region not found")

	// ErrNotUpgradable indicates a valid legacy number that cannot be
	// converted because its sequence characters are not digits.
	ErrNotUpgradable = errors.New("identity number cannot be upgraded")
)
