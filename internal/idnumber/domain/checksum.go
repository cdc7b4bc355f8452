package domain

import dErrors "idcard/pkg/domain-errors"

// checksumWeights are the ISO 7064 MOD 11-2 weights for body positions 0-16.
var checksumWeights = [17]int{7, 9, 10, 5, 8, 4, 2, 1, 6, 3, 7, 9, 10, 5, 8, 4, 2}

// checkCharacters maps the weighted sum modulo 11 to the check character.
var checkCharacters = [11]byte{'1', '0', 'X', '9', '8', '7', '6', '5', '4', '3', '2'}

const bodyLength = LengthCurrent - 1

// Checksum returns the check character for a 17-digit body.
func Checksum(body string) (byte, error) {
	if len(body) != bodyLength || !isDigits(body) {
		return 0, dErrors.Wrap(ErrInvalidArgument, dErrors.CodeInvalidInput,
			"checksum body must be exactly 17 decimal digits")
	}
	return checksum(body), nil
}

// checksum assumes body holds 17 decimal digits.
func checksum(body string) byte {
	total := 0
	for i := range bodyLength {
		total += int(body[i]-'0') * checksumWeights[i]
	}
	return checkCharacters[total%11]
}
