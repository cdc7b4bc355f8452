package domain

// Gender is derived from the parity of the sequence digit.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Code returns the ordinal code used by downstream systems: 1 male, 2 female.
func (g Gender) Code() int {
	switch g {
	case GenderMale:
		return 1
	case GenderFemale:
		return 2
	default:
		return 0
	}
}

// Gender reads the sequence digit (position 16 of 18, or 14 of 15):
// odd is male, even is female. A legacy number may carry a non-digit there;
// it counts as 0 and yields female. The zero value has no gender.
func (n IdentityNumber) Gender() Gender {
	var digit byte
	switch len(n.code) {
	case LengthCurrent:
		digit = n.code[16]
	case LengthLegacy:
		digit = n.code[14]
	default:
		return ""
	}
	if digit < '0' || digit > '9' {
		return GenderFemale
	}
	if (digit-'0')%2 == 0 {
		return GenderFemale
	}
	return GenderMale
}

// GenderCode returns Gender().Code().
func (n IdentityNumber) GenderCode() int {
	return n.Gender().Code()
}
