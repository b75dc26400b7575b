// Package mailer delivers lifecycle mail (account verification, password
// recovery) through the Resend HTTP API. Delivery is best effort: a send
// failure downgrades the triggering operation to a degraded-success
// response, it never rolls back persisted state.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer is the outbound mail capability used by the account lifecycle
// handlers. Tests substitute an in-memory fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Resend sends mail through the Resend REST API.
type Resend struct {
	APIKey string
	From   string
	Client *http.Client
}

// NewResend builds a Resend mailer. An empty API key yields a mailer whose
// sends always fail, which the lifecycle handlers report as the
// "mail could not be sent" outcome.
func NewResend(apiKey, from string) *Resend {
	return &Resend{
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Message string `json:"message"`
}

// Send posts one message to the Resend API.
func (m *Resend) Send(ctx context.Context, to, subject, html string) error {
	if m.APIKey == "" {
		return fmt.Errorf("mailer not configured: missing API key")
	}
	payload, err := json.Marshal(resendRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var apiErr resendError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("resend: unexpected status %d", resp.StatusCode)
	}
	return nil
}
