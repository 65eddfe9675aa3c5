package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for a transactional email provider with a
// JSON send API (SendGrid-compatible shape).
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	fromAddress string
	fromName    string
	debug       bool
}

// Config holds email provider credentials.
type Config struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	FromName    string
}

// NewClient constructs a new mailer client with sane defaults.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		debug:       os.Getenv("ENV") == "development",
	}
}

// SendRequest is the outbound email payload.
type SendRequest struct {
	FromAddress string `json:"fromAddress"`
	FromName    string `json:"fromName"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"htmlBody"`
}

// SendResponse is the provider's send response.
type SendResponse struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error,omitempty"`
}

// Send delivers one email and returns the provider message ID.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	req := SendRequest{
		FromAddress: c.fromAddress,
		FromName:    c.fromName,
		To:          to,
		Subject:     subject,
		HTMLBody:    htmlBody,
	}

	var resp SendResponse
	if err := c.doRequest(ctx, "/v3/mail/send", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("mailer error: %s", resp.Error)
	}
	return resp.MessageID, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[MAILER] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[MAILER] Incoming response")
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mailer returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
