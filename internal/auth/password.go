package auth

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrWeakPassword is returned for passwords that fail ValidatePassword.
var ErrWeakPassword = errors.New("password must be at least 8 characters")

// ValidatePassword enforces the minimum length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(password)) < MinPasswordLength || !utf8.ValidString(password) {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
