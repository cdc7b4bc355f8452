package domain

import dErrors "idcard/pkg/domain-errors"

// Upgrade converts a 15-character number to the 18-character format by
// inserting the century after the region code and appending the check
// character. The birth date, gender and region are preserved. An
// 18-character number is returned unchanged.
//
// A legacy number whose sequence characters are not all digits has no
// check character and fails with ErrNotUpgradable.
func (n IdentityNumber) Upgrade() (IdentityNumber, error) {
	if len(n.code) != LengthLegacy {
		return n, nil
	}
	body := n.code[:6] + legacyCentury + n.code[6:]
	if !isDigits(body) {
		return IdentityNumber{}, dErrors.Wrap(ErrNotUpgradable, dErrors.CodeInvariantViolation,
			"sequence characters must be digits to compute a check character")
	}
	return IdentityNumber{
		code:      body + string(checksum(body)),
		area:      n.area,
		birthDate: n.birthDate,
	}, nil
}
