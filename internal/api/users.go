// ABOUTME: Account HTTP handlers: signup, login, logout, profile, avatar
// ABOUTME: Maps the auth subsystem onto the public JSON surface

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/LuisRuivo21/task-app/internal/auth"
	"github.com/LuisRuivo21/task-app/internal/avatar"
	"github.com/LuisRuivo21/task-app/internal/store"
)

// accountResponse is the public representation of an account.
// The password hash and the session token list never appear here.
type accountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	CreatedAt string `json:"created_at"`
}

func toAccountResponse(a *store.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Age:       a.Age,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// authResponse is the signup/login response shape
type authResponse struct {
	User  accountResponse `json:"user"`
	Token string          `json:"token"`
}

// signupRequest is the JSON request body for POST /users
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
}

// Validate checks the draft against the data model constraints
func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.By(passwordPolicy)),
		validation.Field(&r.Age, validation.Min(0)),
	)
}

// passwordPolicy adapts the auth package policy to an ozzo rule
func passwordPolicy(value interface{}) error {
	plaintext, _ := value.(string)
	return auth.CheckPasswordPolicy(plaintext)
}

// handleSignup handles POST /users.
// Creates the account, fires the welcome mail, and logs the new account in.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	account := &store.Account{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Age != nil {
		account.Age = *req.Age
	}

	if err := s.accounts.CreateAccount(r.Context(), account); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.notify(s.mailer.SendWelcome, account.Email, account.Name)

	token, err := s.startSession(r.Context(), account.ID)
	if err != nil {
		s.logger.Error("starting session after signup", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info("account created", "account_id", account.ID)
	s.writeJSON(w, http.StatusCreated, authResponse{User: toAccountResponse(account), Token: token})
}

// loginRequest is the JSON request body for POST /users/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /users/login.
// Every failure is the same generic 400; the response never hints whether
// the email exists.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "unable to login")
		return
	}

	account, err := auth.FindByCredentials(r.Context(), s.accounts, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Error("login lookup failed", "error", err)
		}
		s.writeError(w, http.StatusBadRequest, "unable to login")
		return
	}

	token, err := s.startSession(r.Context(), account.ID)
	if err != nil {
		s.logger.Error("starting session after login", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, authResponse{User: toAccountResponse(account), Token: token})
}

// startSession issues a token and records it as an active session
func (s *Server) startSession(ctx context.Context, accountID string) (string, error) {
	now := time.Now()
	token, err := s.verifier.Issue(accountID, now)
	if err != nil {
		return "", err
	}
	if err := s.registry.Append(ctx, accountID, token, now); err != nil {
		return "", err
	}
	return token, nil
}

// handleLogout handles POST /users/logout.
// Revokes exactly the session that made the request.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	if err := s.registry.RemoveOne(r.Context(), session.Account.ID, session.Token); err != nil {
		s.logger.Error("logout failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, nil)
}

// handleLogoutAll handles POST /users/logoutAll.
// Revokes every active session of the acting account.
func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	if err := s.registry.ClearAll(r.Context(), session.Account.ID); err != nil {
		s.logger.Error("logout-all failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, nil)
}

// handleGetMe handles GET /users/me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, toAccountResponse(session.Account))
}

// updatableAccountFields is the closed set of externally writable fields
var updatableAccountFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// handleUpdateMe handles PATCH /users/me.
// Any field outside the permitted set rejects the whole update before
// anything is written.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	var fields map[string]json.RawMessage
	if err := decodeJSON(r, &fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(fields) == 0 {
		s.writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	for name := range fields {
		if !updatableAccountFields[name] {
			s.writeError(w, http.StatusBadRequest, "invalid update: unknown field "+name)
			return
		}
	}

	// Work on a copy so a failed update leaves the context account untouched
	updated := *session.Account

	if raw, ok := fields["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid name")
			return
		}
		name = strings.TrimSpace(name)
		if name == "" {
			s.writeError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		updated.Name = name
	}

	if raw, ok := fields["email"]; ok {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid email")
			return
		}
		if err := validation.Validate(email, validation.Required, is.Email); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid email: "+err.Error())
			return
		}
		updated.Email = email
	}

	if raw, ok := fields["password"]; ok {
		var password string
		if err := json.Unmarshal(raw, &password); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid password")
			return
		}
		if err := auth.CheckPasswordPolicy(password); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated.PasswordHash = hash
	}

	if raw, ok := fields["age"]; ok {
		var age int
		if err := json.Unmarshal(raw, &age); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid age")
			return
		}
		if age < 0 {
			s.writeError(w, http.StatusBadRequest, "age must not be negative")
			return
		}
		updated.Age = age
	}

	if err := s.accounts.UpdateAccount(r.Context(), &updated); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toAccountResponse(&updated))
}

// handleDeleteMe handles DELETE /users/me.
// The store removes the account, its sessions, and its tasks in one
// transaction; the cancellation mail goes out only after that commits.
func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())
	account := session.Account

	if err := s.accounts.DeleteAccount(r.Context(), account.ID); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.notify(s.mailer.SendCancellation, account.Email, account.Name)

	s.logger.Info("account deleted via API", "account_id", account.ID)
	s.writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// handleUploadAvatar handles POST /users/me/avatar.
// Expects a multipart form with an "avatar" file field.
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	// Headroom over the payload ceiling for multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxUploadSize+16*1024)

	file, _, err := r.FormFile("avatar")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, avatar.ErrTooLarge.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, "avatar file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	normalized, err := avatar.Normalize(data)
	if err != nil {
		switch {
		case errors.Is(err, avatar.ErrTooLarge):
			s.writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, avatar.ErrUnsupportedFormat):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("avatar normalization failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if err := s.accounts.SetAvatar(r.Context(), session.Account.ID, normalized); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, nil)
}

// handleDeleteAvatar handles DELETE /users/me/avatar
func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	if err := s.accounts.SetAvatar(r.Context(), session.Account.ID, nil); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, nil)
}

// handleGetAvatar handles GET /users/{id}/avatar.
// Public: avatars are served by account ID without authentication.
func (s *Server) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, err := s.accounts.GetAvatar(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "no avatar found")
			return
		}
		s.logger.Error("avatar lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// notify fires a mail send without blocking the request.
// Failures are logged and dropped; mail never affects the API outcome.
func (s *Server) notify(send func(context.Context, string, string) error, email, name string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := send(ctx, email, name); err != nil {
			s.logger.Warn("notification mail failed", "email", email, "error", err)
		}
	}()
}
