package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the hosted payment gateway. The gateway owns card entry,
// tokenization and the hosted payment page; this client only creates sessions
// and interprets the response.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds payment gateway connection details.
type Config struct {
	BaseURL string
	APIKey  string
}

// LineItem is a purchasable line handed to the gateway. UnitAmount is in
// minor currency units (cents), as the gateway requires.
type LineItem struct {
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

// SessionRequest is the payload for creating a hosted checkout session.
type SessionRequest struct {
	LineItems  []LineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Session is the gateway's answer: an opaque session id and the URL of the
// hosted payment page the user is redirected to.
type Session struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// errorResponse is the gateway's error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// NewClient creates a new payment gateway client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSession asks the gateway for a new hosted checkout session. The
// response is decoded into an explicit result type and validated before use;
// a session without both an id and a URL is treated as a failure.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if len(req.LineItems) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return nil, fmt.Errorf("success and cancel URLs are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("payment gateway rejected session: %s", errResp.Error)
		}
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if session.SessionID == "" || session.URL == "" {
		return nil, fmt.Errorf("payment gateway returned an incomplete session")
	}
	return &session, nil
}
