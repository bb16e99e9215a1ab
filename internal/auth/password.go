package auth

import (
	"strings"
	"unicode"

	"gameslibrary/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// CheckPasswordPolicy requires at least eight characters mixing upper case,
// lower case, a digit and a symbol.
func CheckPasswordPolicy(password string) error {
	var upper, lower, digit, symbol bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var missing []string
	if n < MinPasswordLength {
		missing = append(missing, "at least 8 characters")
	}
	if !upper {
		missing = append(missing, "an upper case letter")
	}
	if !lower {
		missing = append(missing, "a lower case letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !symbol {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return domain.ValidationError{Field: "newPassword", Msg: "must contain " + strings.Join(missing, ", ")}
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches the stored bcrypt hash.
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
