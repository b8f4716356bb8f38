// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Enforces the signup password policy before any hash is produced

package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted plaintext length
const MinPasswordLength = 7

// Password errors
var (
	ErrEmptyPassword  = errors.New("password must not be empty")
	ErrPasswordPolicy = errors.New("password violates policy")
)

// dummyHash is compared against when no real hash exists, so a login attempt
// for an unknown email costs the same as one for a known email.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CheckPasswordPolicy validates a candidate plaintext against the signup
// policy: at least MinPasswordLength characters and never containing the
// word "password" in any casing.
func CheckPasswordPolicy(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordPolicy, MinPasswordLength)
	}
	if strings.Contains(strings.ToLower(plaintext), "password") {
		return fmt.Errorf(`%w: must not contain "password"`, ErrPasswordPolicy)
	}
	return nil
}

// HashPassword hashes a plaintext password with bcrypt.
// Each call salts freshly, so hashing the same plaintext twice yields
// different digests that both verify.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
// A mismatch is a false return, never an error.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyDummy burns one bcrypt comparison against a throwaway hash.
// Called on login paths that have no stored hash to compare, keeping their
// timing indistinguishable from the real comparison.
func VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}
