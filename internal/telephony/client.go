// Package telephony wraps the voice platform's phone-number management API.
// Calls use a fixed timeout and are not retried; a non-2xx response surfaces
// as an UpstreamError for the management handlers to relay.
package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// UpstreamError carries the provider's status and body back to the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("telephony API error (%d): %s", e.StatusCode, e.Body)
}

// PhoneNumber the provider's phone-number resource. Raw keeps the full
// provider payload for passthrough responses.
type PhoneNumber struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Server struct {
		URL string `json:"url"`
	} `json:"server"`
	Raw json.RawMessage `json:"-"`
}

// CreateNumberParams provisioning request for a free provider-owned number.
type CreateNumberParams struct {
	AreaCode  string
	ServerURL string
	Name      string
}

// UpdateNumberParams partial update of an existing number.
type UpdateNumberParams struct {
	ServerURL string
	Name      string
}

// Client phone-number management client.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

const webhookTimeoutSeconds = 20

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

func parseNumber(resp *resty.Response) (*PhoneNumber, error) {
	var pn PhoneNumber
	if err := json.Unmarshal(resp.Body(), &pn); err != nil {
		return nil, fmt.Errorf("failed to decode phone number response: %w", err)
	}
	pn.Raw = append(json.RawMessage{}, resp.Body()...)
	return &pn, nil
}

// CreateNumber provisions a free provider-owned number in the given area
// code, pointed at the webhook server URL.
func (c *Client) CreateNumber(ctx context.Context, params CreateNumberParams) (*PhoneNumber, error) {
	payload := map[string]any{
		"provider":             "vapi",
		"numberDesiredAreaCode": params.AreaCode,
		"server": map[string]any{
			"url":            params.ServerURL,
			"timeoutSeconds": webhookTimeoutSeconds,
		},
	}
	if params.Name != "" {
		payload["name"] = params.Name
	}

	resp, err := c.httpClient.R().SetContext(ctx).SetBody(payload).Post("/phone-number")
	if err != nil {
		return nil, fmt.Errorf("telephony request failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Info("Provisioned phone number", zap.String("area_code", params.AreaCode))
	return parseNumber(resp)
}

// GetNumber fetches an existing number resource.
func (c *Client) GetNumber(ctx context.Context, phoneID string) (*PhoneNumber, error) {
	resp, err := c.httpClient.R().SetContext(ctx).Get("/phone-number/" + phoneID)
	if err != nil {
		return nil, fmt.Errorf("telephony request failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return parseNumber(resp)
}

// UpdateNumber patches the server URL and/or display name.
func (c *Client) UpdateNumber(ctx context.Context, phoneID string, params UpdateNumberParams) (*PhoneNumber, error) {
	payload := map[string]any{}
	if params.ServerURL != "" {
		payload["server"] = map[string]any{
			"url":            params.ServerURL,
			"timeoutSeconds": webhookTimeoutSeconds,
		}
	}
	if params.Name != "" {
		payload["name"] = params.Name
	}

	resp, err := c.httpClient.R().SetContext(ctx).SetBody(payload).Patch("/phone-number/" + phoneID)
	if err != nil {
		return nil, fmt.Errorf("telephony request failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return parseNumber(resp)
}

// DeleteNumber releases a number back to the provider.
func (c *Client) DeleteNumber(ctx context.Context, phoneID string) error {
	resp, err := c.httpClient.R().SetContext(ctx).Delete("/phone-number/" + phoneID)
	if err != nil {
		return fmt.Errorf("telephony request failed: %w", err)
	}
	switch resp.StatusCode() {
	case 200, 201, 204:
		return nil
	}
	return &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
}
