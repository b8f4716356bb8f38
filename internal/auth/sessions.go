// ABOUTME: Session registry tracking each account's active tokens
// ABOUTME: Append on login, remove-one on logout, clear-all on logout-everywhere

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/LuisRuivo21/task-app/internal/store"
)

// Registry maintains the per-account list of currently valid session tokens.
// A token's signature keeps verifying after revocation; membership here is
// the liveness check that makes logout effective.
type Registry struct {
	accounts store.AccountStore
}

// NewRegistry creates a session registry backed by the given account store
func NewRegistry(accounts store.AccountStore) *Registry {
	return &Registry{accounts: accounts}
}

// Append records a freshly issued token as an active session
func (r *Registry) Append(ctx context.Context, accountID, token string, issuedAt time.Time) error {
	err := r.accounts.AddSessionToken(ctx, accountID, store.SessionToken{
		Token:    token,
		IssuedAt: issuedAt,
	})
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// RemoveOne revokes exactly the matching token (single-session logout).
// Revoking an already-absent token is a no-op; revocation is terminal.
func (r *Registry) RemoveOne(ctx context.Context, accountID, token string) error {
	if err := r.accounts.RemoveSessionToken(ctx, accountID, token); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// ClearAll revokes every active token for the account (logout-everywhere)
func (r *Registry) ClearAll(ctx context.Context, accountID string) error {
	if err := r.accounts.ClearSessionTokens(ctx, accountID); err != nil {
		return fmt.Errorf("revoking all sessions: %w", err)
	}
	return nil
}

// IsActive reports whether the token is in the account's active session list
func (r *Registry) IsActive(ctx context.Context, accountID, token string) (bool, error) {
	active, err := r.accounts.HasSessionToken(ctx, accountID, token)
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	return active, nil
}
