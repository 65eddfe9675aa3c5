package whatsapp

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

// Client is a minimal HTTP client for the WhatsApp Business Cloud API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	phoneID     string
	accessToken string
	debug       bool
}

// Config holds WhatsApp Business API credentials.
type Config struct {
	BaseURL     string
	PhoneID     string
	AccessToken string
}

// NewClient constructs a new WhatsApp client with sane defaults.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     cfg.BaseURL,
		phoneID:     cfg.PhoneID,
		accessToken: cfg.AccessToken,
		debug:       os.Getenv("ENV") == "development",
	}
}

// SendText sends a plain text message to a phone number in E.164 format.
// The returned message ID correlates delivery-receipt webhooks.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	req := SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &TextPayload{Body: body},
	}
	return c.send(ctx, req)
}

// SendImage sends an image by URL with an optional caption.
func (c *Client) SendImage(ctx context.Context, to, imageURL, caption string) (string, error) {
	req := SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "image",
		Image:            &MediaPayload{Link: imageURL, Caption: caption},
	}
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, body SendMessageRequest) (string, error) {
	var resp SendMessageResponse
	endpoint := fmt.Sprintf("/%s/messages", c.phoneID)
	if err := c.doRequest(ctx, endpoint, body, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("whatsapp error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Messages) == 0 {
		return "", fmt.Errorf("whatsapp response contained no message id")
	}
	return resp.Messages[0].ID, nil
}

// doRequest performs the HTTP POST with JSON payloads and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[WHATSAPP] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

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
			Msg("[WHATSAPP] Incoming response")
	}

	// The Graph API encodes failures in the JSON body; decode regardless of
	// status code so the caller sees the error message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
