// ABOUTME: Task HTTP handlers: create, list, get, update, delete
// ABOUTME: Every operation is scoped to the authenticated account

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/LuisRuivo21/task-app/internal/auth"
	"github.com/LuisRuivo21/task-app/internal/store"
)

// defaultTaskPageSize is the list page size when the caller sends no limit.
// Deliberately small; it matches the behavior clients were built against.
const defaultTaskPageSize = 2

// taskResponse is the public representation of a task
type taskResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Owner       string `json:"owner"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toTaskResponse(t *store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.OwnerID,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// createTaskRequest is the JSON request body for POST /tasks
type createTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Validate checks the draft task
func (r createTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.Required),
	)
}

// handleCreateTask handles POST /tasks
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Description = strings.TrimSpace(req.Description)

	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	task := &store.Task{
		ID:          uuid.NewString(),
		OwnerID:     session.Account.ID,
		Description: req.Description,
		Completed:   req.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.CreateTask(r.Context(), task); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// parseTaskFilter builds a store filter from the list query parameters.
// Supported: completed=true|false, limit, skip, sortBy=field:asc|desc.
func parseTaskFilter(r *http.Request) store.TaskFilter {
	q := r.URL.Query()

	filter := store.TaskFilter{Limit: defaultTaskPageSize}

	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	if v := q.Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Skip = n
		}
	}

	if v := q.Get("sortBy"); v != "" {
		field, direction, _ := strings.Cut(v, ":")
		filter.SortBy = field
		filter.SortDesc = direction == "desc"
	}

	return filter
}

// handleListTasks handles GET /tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	tasks, err := s.tasks.ListTasks(r.Context(), session.Account.ID, parseTaskFilter(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	responses := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}

	s.writeJSON(w, http.StatusOK, responses)
}

// handleGetTask handles GET /tasks/{id}
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	task, err := s.tasks.GetTask(r.Context(), session.Account.ID, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// updatableTaskFields is the closed set of externally writable task fields
var updatableTaskFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// handleUpdateTask handles PATCH /tasks/{id}.
// Permitted fields are copied from the request body onto the stored task.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
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
		if !updatableTaskFields[name] {
			s.writeError(w, http.StatusBadRequest, "invalid update: unknown field "+name)
			return
		}
	}

	task, err := s.tasks.GetTask(r.Context(), session.Account.ID, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	if raw, ok := fields["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid description")
			return
		}
		description = strings.TrimSpace(description)
		if description == "" {
			s.writeError(w, http.StatusBadRequest, "description must not be empty")
			return
		}
		task.Description = description
	}

	if raw, ok := fields["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid completed value")
			return
		}
		task.Completed = completed
	}

	if err := s.tasks.UpdateTask(r.Context(), task); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// handleDeleteTask handles DELETE /tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	session := auth.MustFromContext(r.Context())

	task, err := s.tasks.DeleteTask(r.Context(), session.Account.ID, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}
