package credentials

import (
	"fmt"
	"unicode"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashVersionBcrypt = "bcrypt"

	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (hash string, version string, err error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", "", err
	}

	return string(bytes), HashVersionBcrypt, nil
}

// VerifyPassword compares plaintext password with stored hash.
func VerifyPassword(hash string, password string) error {
	return bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
}

// ValidateUsername accepts non-empty, ASCII letters-and-digits names.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty: %w", apperr.ErrInvalidInput)
	}
	for _, r := range username {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return fmt.Errorf("username must be alphanumeric: %w", apperr.ErrInvalidInput)
		}
	}
	return nil
}

// ValidatePassword requires at least 8 characters with an upper case letter,
// a lower case letter, a digit and a symbol.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password too short: %w", apperr.ErrInvalidInput)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password too long: %w", apperr.ErrInvalidInput)
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
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
	if !upper || !lower || !digit || !symbol {
		return fmt.Errorf("not a strong password: %w", apperr.ErrInvalidInput)
	}
	return nil
}
