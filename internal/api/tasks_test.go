// ABOUTME: Tests for the task HTTP surface
// ABOUTME: Covers owner scoping, pagination, sorting, and the update whitelist

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTask makes a task over HTTP and returns its response.
func createTask(t *testing.T, handler http.Handler, token, description string, completed bool) taskResponse {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/tasks", token, map[string]any{
		"description": description,
		"completed":   completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create task failed: %s", rec.Body.String())

	var resp taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func listTasks(t *testing.T, handler http.Handler, token, query string) []taskResponse {
	t.Helper()

	rec := doJSON(t, handler, http.MethodGet, "/tasks"+query, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, "list failed: %s", rec.Body.String())

	var resp []taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestTasks_Create(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	task := createTask(t, handler, token, "buy milk", false)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "buy milk", task.Description)
	assert.False(t, task.Completed)
	assert.NotEmpty(t, task.Owner)
}

func TestTasks_Create_RequiresDescription(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	for _, body := range []map[string]any{
		{},
		{"description": ""},
		{"description": "   "},
	} {
		rec := doJSON(t, handler, http.MethodPost, "/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestTasks_List_DefaultPageSize(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	for i := 0; i < 5; i++ {
		createTask(t, handler, token, fmt.Sprintf("task %d", i), false)
	}

	// Unpaginated list is capped at the default page size
	assert.Len(t, listTasks(t, handler, token, ""), 2)

	// Explicit limit overrides it
	assert.Len(t, listTasks(t, handler, token, "?limit=10"), 5)
}

func TestTasks_List_Empty(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	rec := doJSON(t, handler, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()),
		"empty list must serialize as [], not null")
}

func TestTasks_List_CompletedFilter(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	createTask(t, handler, token, "done", true)
	createTask(t, handler, token, "pending", false)

	done := listTasks(t, handler, token, "?completed=true")
	require.Len(t, done, 1)
	assert.Equal(t, "done", done[0].Description)

	pending := listTasks(t, handler, token, "?completed=false")
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0].Description)
}

func TestTasks_List_SkipAndSort(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	for _, d := range []string{"alpha", "bravo", "charlie"} {
		createTask(t, handler, token, d, false)
	}

	sorted := listTasks(t, handler, token, "?sortBy=description:desc&limit=10")
	require.Len(t, sorted, 3)
	assert.Equal(t, "charlie", sorted[0].Description)
	assert.Equal(t, "alpha", sorted[2].Description)

	skipped := listTasks(t, handler, token, "?sortBy=description:asc&limit=10&skip=1")
	require.Len(t, skipped, 2)
	assert.Equal(t, "bravo", skipped[0].Description)
}

func TestTasks_List_OwnerScoped(t *testing.T) {
	handler, _, _ := setupServer(t)
	alice := signup(t, handler, "alice@x.com")
	bob := signup(t, handler, "bob@x.com")

	createTask(t, handler, alice, "alice task", false)
	createTask(t, handler, bob, "bob task", false)

	tasks := listTasks(t, handler, alice, "?limit=10")
	require.Len(t, tasks, 1)
	assert.Equal(t, "alice task", tasks[0].Description)
}

func TestTasks_Get(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	created := createTask(t, handler, token, "find me", false)

	rec := doJSON(t, handler, http.MethodGet, "/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
}

func TestTasks_Get_OtherOwnerIsNotFound(t *testing.T) {
	handler, _, _ := setupServer(t)
	alice := signup(t, handler, "alice@x.com")
	bob := signup(t, handler, "bob@x.com")

	created := createTask(t, handler, alice, "private", false)

	// Another tenant's task looks like it does not exist
	rec := doJSON(t, handler, http.MethodGet, "/tasks/"+created.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_Update(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	created := createTask(t, handler, token, "draft", false)

	rec := doJSON(t, handler, http.MethodPatch, "/tasks/"+created.ID, token, map[string]any{
		"description": "final",
		"completed":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "final", updated.Description)
	assert.True(t, updated.Completed)
}

// TestTasks_Update_PersistsFields guards against updates that validate the
// request but never copy the values onto the stored task.
func TestTasks_Update_PersistsFields(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	created := createTask(t, handler, token, "before", false)

	rec := doJSON(t, handler, http.MethodPatch, "/tasks/"+created.ID, token, map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Re-read through the API, not the PATCH echo
	rec = doJSON(t, handler, http.MethodGet, "/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Completed, "completed flag must survive a round trip")
	assert.Equal(t, "before", got.Description, "untouched fields keep their values")
}

func TestTasks_Update_UnknownField(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	created := createTask(t, handler, token, "task", false)

	rec := doJSON(t, handler, http.MethodPatch, "/tasks/"+created.ID, token, map[string]any{
		"owner": "someone-else",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner")
}

func TestTasks_Update_EmptyDescription(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	created := createTask(t, handler, token, "task", false)

	rec := doJSON(t, handler, http.MethodPatch, "/tasks/"+created.ID, token, map[string]any{
		"description": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasks_Update_OtherOwnerIsNotFound(t *testing.T) {
	handler, _, _ := setupServer(t)
	alice := signup(t, handler, "alice@x.com")
	bob := signup(t, handler, "bob@x.com")

	created := createTask(t, handler, alice, "private", false)

	rec := doJSON(t, handler, http.MethodPatch, "/tasks/"+created.ID, bob, map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_Delete(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := signup(t, handler, "a@x.com")

	created := createTask(t, handler, token, "doomed", false)

	rec := doJSON(t, handler, http.MethodDelete, "/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, "doomed", deleted.Description, "deletion returns the removed task")

	rec = doJSON(t, handler, http.MethodGet, "/tasks/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_Delete_OtherOwnerIsNotFound(t *testing.T) {
	handler, _, _ := setupServer(t)
	alice := signup(t, handler, "alice@x.com")
	bob := signup(t, handler, "bob@x.com")

	created := createTask(t, handler, alice, "private", false)

	rec := doJSON(t, handler, http.MethodDelete, "/tasks/"+created.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Still there for its owner
	rec = doJSON(t, handler, http.MethodGet, "/tasks/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
