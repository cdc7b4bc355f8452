// Package domain implements parsing, validation and attribute derivation for
// national identity numbers in the 18-character format and the 15-character
// legacy format.
//
// # Validation
//
// An 18-character number is valid when its first 17 characters are decimal
// digits, the 18th character matches the ISO 7064 MOD 11-2 check character of
// the body, and the embedded birth date (offsets 6-14) is a real calendar date.
//
// A 15-character number predates the check character. It is valid when its
// region prefix is known to the ProvinceRegistry and offsets 6-12 form a real
// date in the 1900s. This is a structural check only and gives a weaker
// guarantee than the 18-character path; IdentityNumber.Legacy reports it.
//
// # Derivation
//
// Parse is the only way to obtain an IdentityNumber, so every derived
// attribute (birth date, age, gender, constellation, region, masked form) is
// computed from a number that already passed validation. The birth date is
// computed once inside Parse and the value is immutable afterwards.
//
// Domain Purity: this package performs no I/O, takes no context.Context and
// never reads the wall clock. Reference times are received as parameters and
// region data arrives through the RegionTable and ProvinceRegistry interfaces.
package domain
