// ABOUTME: Bearer-token authentication gate for protected HTTP endpoints
// ABOUTME: Resolves a request into an account and attaches it to the context

package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/LuisRuivo21/task-app/internal/store"
)

// ErrUnauthenticated is returned for every authentication failure on a
// protected request: missing or malformed header, bad signature, unknown
// account, or a revoked session. Callers never learn which check failed.
var ErrUnauthenticated = errors.New("unauthenticated")

// Gate authenticates protected requests.
// It is composed explicitly by the routing layer; nothing here mutates
// global request state.
type Gate struct {
	verifier *TokenVerifier
	accounts store.AccountStore
	sessions *Registry
	logger   *slog.Logger
}

// NewGate creates an authentication gate
func NewGate(verifier *TokenVerifier, accounts store.AccountStore, sessions *Registry) *Gate {
	return &Gate{
		verifier: verifier,
		accounts: accounts,
		sessions: sessions,
		logger:   slog.Default().With("component", "auth"),
	}
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Authenticate resolves a request into an authenticated session.
// The checks run in a fixed order: bearer extraction, signature verification,
// account lookup, registry liveness. Every failure is ErrUnauthenticated;
// details go to the log, not the caller.
func (g *Gate) Authenticate(r *http.Request) (*Session, error) {
	token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
	if errMsg != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnauthenticated, errMsg)
	}

	accountID, err := g.verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: token verification failed", ErrUnauthenticated)
	}

	account, err := g.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
		}
		g.logger.Error("account lookup failed during authentication", "error", err)
		return nil, fmt.Errorf("%w: account lookup failed", ErrUnauthenticated)
	}

	active, err := g.sessions.IsActive(r.Context(), accountID, token)
	if err != nil {
		g.logger.Error("session check failed during authentication", "error", err)
		return nil, fmt.Errorf("%w: session check failed", ErrUnauthenticated)
	}
	if !active {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	}

	return &Session{Account: account, Token: token}, nil
}

// Middleware wraps a handler so it only runs for authenticated requests,
// with the resolved Session available via FromContext.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := g.Authenticate(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"please authenticate"}`)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
