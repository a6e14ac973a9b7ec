package resetflow

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxEmailLen       = 254
	OTPLength         = 6
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)

// NormalizeEmail trims and lowercases email, then checks length and shape.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > MaxEmailLen || !emailRe.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// ValidateOTP accepts exactly six ASCII digits.
func ValidateOTP(code string) error {
	if len(code) != OTPLength {
		return ErrInvalidOTP
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidOTP
		}
	}
	return nil
}

// ValidatePassword applies the local strength policy and checks confirm.
func ValidatePassword(password, confirm []byte) error {
	n := utf8.RuneCount(password)
	if n < MinPasswordLength {
		return fmt.Errorf("%w: shorter than %d characters", ErrWeakPassword, MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("%w: longer than %d characters", ErrWeakPassword, MaxPasswordLength)
	}

	var upper, lower, digit, special bool
	for _, r := range string(password) {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSpace(r):
		default:
			special = true
		}
	}

	var missing []string
	if !upper {
		missing = append(missing, "uppercase letter")
	}
	if !lower {
		missing = append(missing, "lowercase letter")
	}
	if !digit {
		missing = append(missing, "digit")
	}
	if !special {
		missing = append(missing, "symbol")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrWeakPassword, strings.Join(missing, ", "))
	}

	if string(password) != string(confirm) {
		return ErrPasswordMismatch
	}
	return nil
}
