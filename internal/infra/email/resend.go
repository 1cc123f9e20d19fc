// Package email delivers notifications over the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"classly/internal/domain/notification"
	"classly/internal/model"
)

var _ notification.EmailSender = (*ResendSender)(nil)

// ResendSender sends notification emails using the Resend API.
type ResendSender struct {
	apiKey      string
	fromAddress string
	fromName    string
	httpClient  *http.Client
}

// NewResendSender creates a new Resend email sender.
func NewResendSender(apiKey, fromAddress, fromName string) *ResendSender {
	return &ResendSender{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SendEmail delivers a notification as an email via the Resend API.
func (s *ResendSender) SendEmail(ctx context.Context, to string, n *model.Notification) error {
	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	payload := map[string]any{
		"from":    from,
		"to":      []string{to},
		"subject": n.Title,
		"html":    renderHTML(n),
		"text":    n.Content,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		msg := errResp.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("resend: %s", msg)
	}
	return nil
}

func renderHTML(n *model.Notification) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h2>%s</h2><p>%s</p>", html.EscapeString(n.Title), html.EscapeString(n.Content))
	if n.ActionURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">View details</a></p>`, html.EscapeString(n.ActionURL))
	}
	return b.String()
}
