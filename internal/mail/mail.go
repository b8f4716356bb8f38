// ABOUTME: Outbound notification mail via the SendGrid v3 API
// ABOUTME: Fire-and-forget; delivery failures are logged, never propagated

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sendEndpoint is the SendGrid v3 mail send URL
const sendEndpoint = "https://api.sendgrid.com/v3/mail/send"

// requestTimeout bounds a single delivery attempt
const requestTimeout = 10 * time.Second

// Mailer sends account lifecycle notifications.
// Implementations are best-effort: the triggering request must never block
// on or fail because of mail delivery.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancellation(ctx context.Context, email, name string) error
}

// Client is a Mailer backed by the SendGrid v3 HTTP API
type Client struct {
	apiKey      string
	fromAddress string
	fromName    string
	endpoint    string
	httpClient  *http.Client
}

// NewClient creates a SendGrid mail client
func NewClient(apiKey, fromAddress, fromName string) *Client {
	return &Client{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		endpoint:    sendEndpoint,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

// message mirrors the SendGrid v3 send payload
type message struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendWelcome sends the signup greeting
func (c *Client) SendWelcome(ctx context.Context, email, name string) error {
	return c.send(ctx, email, name,
		"Thank you for joining the Task Manager App",
		fmt.Sprintf("Hi %s, welcome to the Task Manager App. Please let me know if you require any further assistance.", name),
	)
}

// SendCancellation sends the account deletion confirmation
func (c *Client) SendCancellation(ctx context.Context, email, name string) error {
	return c.send(ctx, email, name,
		"Cancellation confirmation",
		fmt.Sprintf("Hi %s, it is sad to know that you are leaving the Task Manager App.", name),
	)
}

func (c *Client) send(ctx context.Context, email, name, subject, body string) error {
	msg := message{
		Personalizations: []personalization{{To: []address{{Email: email, Name: name}}}},
		From:             address{Email: c.fromAddress, Name: c.fromName},
		Subject:          subject,
		Content:          []content{{Type: "text/plain", Value: body}},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API returned status %d: %s", resp.StatusCode, detail)
	}

	return nil
}

// Nop is a Mailer that silently drops every notification.
// Used when no API key is configured.
type Nop struct{}

// SendWelcome implements Mailer
func (Nop) SendWelcome(ctx context.Context, email, name string) error { return nil }

// SendCancellation implements Mailer
func (Nop) SendCancellation(ctx context.Context, email, name string) error { return nil }
