// Package billing wraps the Autumn metered-billing API: checkout links,
// billing-portal links, feature checks, and usage tracking.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// UsageTracker is the slice of the billing client the call-report path
// needs; tests inject a recording fake.
type UsageTracker interface {
	Track(ctx context.Context, customerID, featureID string, value float64) error
}

// CheckoutResult checkout-link response.
type CheckoutResult struct {
	URL        string          `json:"url"`
	CustomerID string          `json:"customer_id"`
	Product    json.RawMessage `json:"product"`
}

// PortalResult billing-portal-link response.
type PortalResult struct {
	URL        string `json:"url"`
	CustomerID string `json:"customer_id"`
}

// CheckResult feature-entitlement response. Pointer fields are null when the
// provider omits them.
type CheckResult struct {
	Allowed         bool     `json:"allowed"`
	Code            string   `json:"code,omitempty"`
	CustomerID      string   `json:"customer_id,omitempty"`
	FeatureID       string   `json:"feature_id,omitempty"`
	Balance         *float64 `json:"balance"`
	Usage           *float64 `json:"usage"`
	IncludedUsage   *float64 `json:"included_usage"`
	NextResetAt     *int64   `json:"next_reset_at"`
	OverageAllowed  *bool    `json:"overage_allowed"`
	Interval        *string  `json:"interval"`
	IntervalCount   *int     `json:"interval_count"`
	Unlimited       *bool    `json:"unlimited"`
	RequiredBalance *float64 `json:"required_balance"`
}

// Client Autumn API client. A missing customer is created implicitly by the
// provider on first use, so callers never pre-register customers.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

const defaultBaseURL = "https://api.useautumn.com/v1"

func NewClient(secretKey string, logger *zap.Logger) *Client {
	return NewClientWithBaseURL(defaultBaseURL, secretKey, logger)
}

func NewClientWithBaseURL(baseURL, secretKey string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(secretKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

var _ UsageTracker = (*Client)(nil)

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err != nil {
		return fmt.Errorf("billing request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("billing API error (%d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Checkout returns a checkout URL for the customer to subscribe to the
// product. successURL is where the payment page redirects afterwards.
func (c *Client) Checkout(ctx context.Context, customerID, productID, successURL string) (*CheckoutResult, error) {
	body := map[string]any{
		"customer_id": customerID,
		"product_id":  productID,
	}
	if successURL != "" {
		body["success_url"] = successURL
	}

	var result CheckoutResult
	if err := c.post(ctx, "/checkout", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BillingPortal returns a portal URL where the customer manages their
// subscription.
func (c *Client) BillingPortal(ctx context.Context, customerID, returnURL string) (*PortalResult, error) {
	body := map[string]any{}
	if returnURL != "" {
		body["return_url"] = returnURL
	}

	var result PortalResult
	path := fmt.Sprintf("/customers/%s/billing_portal", customerID)
	if err := c.post(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Check reports whether the customer currently has access to the feature.
func (c *Client) Check(ctx context.Context, customerID, featureID string) (*CheckResult, error) {
	body := map[string]any{
		"customer_id": customerID,
		"feature_id":  featureID,
	}

	var result CheckResult
	if err := c.post(ctx, "/check", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Track records metered usage against the feature.
func (c *Client) Track(ctx context.Context, customerID, featureID string, value float64) error {
	body := map[string]any{
		"customer_id": customerID,
		"feature_id":  featureID,
		"value":       value,
	}

	c.logger.Info("Tracking usage",
		zap.String("customer_id", customerID),
		zap.String("feature_id", featureID),
		zap.Float64("value", value),
	)
	return c.post(ctx, "/track", body, &map[string]any{})
}
