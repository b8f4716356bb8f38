// ABOUTME: Credential verification for login
// ABOUTME: One generic error covers unknown email and wrong password alike

package auth

import (
	"context"
	"errors"

	"github.com/LuisRuivo21/task-app/internal/store"
)

// ErrInvalidCredentials is returned for any failed login.
// It deliberately does not distinguish "no such email" from "wrong password",
// so a login attempt cannot probe for account existence.
var ErrInvalidCredentials = errors.New("invalid email or password")

// FindByCredentials looks up an account by email and verifies the plaintext
// password against its stored hash. The bcrypt comparison runs even when the
// email is unknown, keeping both failure paths on the same timing.
func FindByCredentials(ctx context.Context, accounts store.AccountStore, email, password string) (*store.Account, error) {
	account, err := accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			VerifyDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
