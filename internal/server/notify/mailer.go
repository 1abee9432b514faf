// Package notify delivers out-of-band messages through a third-party mail
// relay. Delivery runs strictly after the related storage mutation has
// committed; a failed send never implies a storage failure.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DeliveryError reports a relay rejection with the upstream status and body.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery failed: status %d, body %q", e.StatusCode, e.Body)
}

// Notifier sends a stored or generated secret to an external address.
type Notifier interface {
	SendSecret(ctx context.Context, recipient string, secret string) error
}

// Mailer posts JSON payloads to a RapidMail-style relay.
type Mailer struct {
	endpoint string
	apiKey   string
	apiHost  string
	replyTo  string
	client   *http.Client
}

type mailPayload struct {
	IsHTML  string `json:"ishtml"`
	SendTo  string `json:"sendto"`
	Name    string `json:"name"`
	ReplyTo string `json:"replyTo"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

func NewMailer(endpoint, apiKey, apiHost, replyTo string, timeout time.Duration) *Mailer {
	return &Mailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		apiHost:  apiHost,
		replyTo:  replyTo,
		client:   &http.Client{Timeout: timeout},
	}
}

// SendSecret delivers the login secret to recipient. A non-2xx relay answer
// yields a *DeliveryError carrying the upstream status and body.
func (m *Mailer) SendSecret(ctx context.Context, recipient string, secret string) error {
	payload := mailPayload{
		IsHTML:  "false",
		SendTo:  recipient,
		Name:    "Lockzilla User",
		ReplyTo: m.replyTo,
		Title:   "Your Lockzilla Login Password",
		Body:    fmt.Sprintf("Hello,\n\nYour login password for Lockzilla is: %s\n\nPlease keep it secure.", secret),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("x-rapidapi-key", m.apiKey)
	req.Header.Set("x-rapidapi-host", m.apiHost)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	return nil
}
