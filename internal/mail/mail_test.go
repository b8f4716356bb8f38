// ABOUTME: Tests for the SendGrid mail client
// ABOUTME: Covers payload shape, auth header, and failure surfacing

package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient returns a Client pointed at a stub API server.
func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("SG.test-key", "noreply@example.com", "Task App")
	c.endpoint = srv.URL
	return c
}

func TestClient_SendWelcome(t *testing.T) {
	var gotAuth string
	var gotBody []byte

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.SendWelcome(context.Background(), "a@x.com", "Ada")
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.test-key", gotAuth)

	var msg message
	require.NoError(t, json.Unmarshal(gotBody, &msg))
	require.Len(t, msg.Personalizations, 1)
	assert.Equal(t, "a@x.com", msg.Personalizations[0].To[0].Email)
	assert.Equal(t, "noreply@example.com", msg.From.Email)
	assert.Contains(t, msg.Content[0].Value, "Ada")
	assert.Contains(t, msg.Subject, "joining")
}

func TestClient_SendCancellation(t *testing.T) {
	var gotBody []byte

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.SendCancellation(context.Background(), "a@x.com", "Ada")
	require.NoError(t, err)

	var msg message
	require.NoError(t, json.Unmarshal(gotBody, &msg))
	assert.Equal(t, "Cancellation confirmation", msg.Subject)
}

func TestClient_APIFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	})

	err := c.SendWelcome(context.Background(), "a@x.com", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNop(t *testing.T) {
	var m Mailer = Nop{}

	assert.NoError(t, m.SendWelcome(context.Background(), "a@x.com", "Ada"))
	assert.NoError(t, m.SendCancellation(context.Background(), "a@x.com", "Ada"))
}
