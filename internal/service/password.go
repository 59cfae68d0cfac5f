package service

import "unicode/utf8"

// Strength grades a password for the sign-up meter.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthNormal Strength = "normal"
	StrengthStrong Strength = "strong"
)

// PasswordStrength scores one point each for length >= 8, length >= 12, and
// for each character class present: lower, upper, digit, other.
// Up to 2 points is weak, up to 4 is normal, more is strong.
func PasswordStrength(pwd string) Strength {
	if pwd == "" {
		return StrengthWeak
	}

	n := utf8.RuneCountInString(pwd)
	score := 0
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}

	var lower, upper, digit, other bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	for _, ok := range []bool{lower, upper, digit, other} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return StrengthWeak
	case score <= 4:
		return StrengthNormal
	}
	return StrengthStrong
}
