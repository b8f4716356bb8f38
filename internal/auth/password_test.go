// ABOUTME: Tests for password hashing, verification, and the signup policy
// ABOUTME: Covers fresh salting, mismatch behavior, and forbidden plaintexts

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("supersecret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword("supersecret1", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.NotContains(t, hash, "supersecret1", "hash must not embed the plaintext")
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("supersecret1")
	require.NoError(t, err)
	second, err := HashPassword("supersecret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each call must salt freshly")
	assert.True(t, VerifyPassword("supersecret1", first))
	assert.True(t, VerifyPassword("supersecret1", second))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
}

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "supersecret1", nil},
		{"empty", "", ErrEmptyPassword},
		{"too short", "abc123", ErrPasswordPolicy},
		{"exact minimum", "abcd123", nil},
		{"literal password", "password", ErrPasswordPolicy},
		{"capitalized", "Password", ErrPasswordPolicy},
		{"mixed case", "PaSsWoRd123", ErrPasswordPolicy},
		{"embedded", "mypassword123", ErrPasswordPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
