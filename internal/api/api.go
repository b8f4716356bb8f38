// ABOUTME: HTTP API server wiring for task-app
// ABOUTME: Route table, JSON helpers, and shared error responses

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LuisRuivo21/task-app/internal/auth"
	"github.com/LuisRuivo21/task-app/internal/mail"
	"github.com/LuisRuivo21/task-app/internal/store"
)

// Server handles the public JSON API
type Server struct {
	accounts store.AccountStore
	tasks    store.TaskStore
	verifier *auth.TokenVerifier
	registry *auth.Registry
	gate     *auth.Gate
	mailer   mail.Mailer
	logger   *slog.Logger
}

// New creates an API server over the given collaborators
func New(accounts store.AccountStore, tasks store.TaskStore, verifier *auth.TokenVerifier, mailer mail.Mailer) *Server {
	registry := auth.NewRegistry(accounts)
	return &Server{
		accounts: accounts,
		tasks:    tasks,
		verifier: verifier,
		registry: registry,
		gate:     auth.NewGate(verifier, accounts, registry),
		mailer:   mailer,
		logger:   slog.Default().With("component", "api"),
	}
}

// Routes returns the fully wired route table
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public routes (no auth required)
	mux.HandleFunc("POST /users", s.handleSignup)
	mux.HandleFunc("POST /users/login", s.handleLogin)
	mux.HandleFunc("GET /users/{id}/avatar", s.handleGetAvatar)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Protected routes: the gate resolves the bearer token before the
	// handler runs
	mux.Handle("POST /users/logout", s.protected(s.handleLogout))
	mux.Handle("POST /users/logoutAll", s.protected(s.handleLogoutAll))
	mux.Handle("GET /users/me", s.protected(s.handleGetMe))
	mux.Handle("PATCH /users/me", s.protected(s.handleUpdateMe))
	mux.Handle("DELETE /users/me", s.protected(s.handleDeleteMe))
	mux.Handle("POST /users/me/avatar", s.protected(s.handleUploadAvatar))
	mux.Handle("DELETE /users/me/avatar", s.protected(s.handleDeleteAvatar))

	mux.Handle("POST /tasks", s.protected(s.handleCreateTask))
	mux.Handle("GET /tasks", s.protected(s.handleListTasks))
	mux.Handle("GET /tasks/{id}", s.protected(s.handleGetTask))
	mux.Handle("PATCH /tasks/{id}", s.protected(s.handleUpdateTask))
	mux.Handle("DELETE /tasks/{id}", s.protected(s.handleDeleteTask))

	return mux
}

// protected wraps a handler with the authentication gate
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.gate.Middleware(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps a store failure onto the API contract: missing
// entities are 404, email conflicts are 409, anything else is an opaque 500.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		s.writeError(w, http.StatusConflict, "email already in use")
	default:
		s.logger.Error("storage failure", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a request body, limited to a sane size
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}
