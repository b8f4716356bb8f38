// ABOUTME: JWT session token issuance and verification
// ABOUTME: Uses HS256 signing with the configured process-wide secret

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// TokenVerifier issues and verifies HS256 signed session tokens.
// A zero ttl issues tokens without an expiry claim, which matches the
// default behavior: sessions end by revocation, not by clock. Setting a ttl
// is an opt-in hardening measure.
type TokenVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenVerifier creates a token verifier with the given secret and
// optional ttl (zero means issued tokens never expire).
func NewTokenVerifier(secret []byte, ttl time.Duration) *TokenVerifier {
	return &TokenVerifier{secret: secret, ttl: ttl}
}

// Issue creates a signed token for the given account ID.
// The issuance time is embedded as the "iat" claim.
func (v *TokenVerifier) Issue(accountID string, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": issuedAt.Unix(),
	}
	if v.ttl > 0 {
		claims["exp"] = issuedAt.Add(v.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify validates the token signature and extracts the account ID from the
// "sub" claim. It says nothing about whether the session is still active;
// that is the registry's job.
func (v *TokenVerifier) Verify(tokenString string) (accountID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}
