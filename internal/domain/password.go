package domain

import "unicode"

const MinPasswordLength = 8

// CheckPasswordStrength applies the password rules in a fixed order and
// returns the first one that fails.
func CheckPasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper {
		return ErrPasswordMissingUppercase
	}
	if !lower {
		return ErrPasswordMissingLowercase
	}
	if !digit {
		return ErrPasswordMissingDigit
	}
	return nil
}
