package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appconfig "github.com/ignite/newsletter/internal/config"
)

// HTTPSender delivers email through a SendGrid-compatible REST API
// (POST {base_url}/v3/mail/send). cmd/fakemail implements the same
// endpoint for local and integration testing.
type HTTPSender struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	fromEmail string
	fromName  string
}

// NewHTTPSender creates an HTTP API sender.
func NewHTTPSender(cfg appconfig.HTTPConfig, fromEmail, fromName string) *HTTPSender {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &HTTPSender{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             mailAddress       `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []mailAddress `json:"to"`
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers a single email via the mail API.
func (s *HTTPSender) Send(ctx context.Context, msg Email) error {
	payload := mailSendRequest{
		Personalizations: []personalization{{To: []mailAddress{{Email: msg.To}}}},
		From:             mailAddress{Email: s.fromEmail, Name: s.fromName},
		Subject:          msg.Subject,
		Content: []mailContent{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
