// Package auth verifies bearer tokens against the identity provider and
// yields the authenticated user. The provider itself is an external
// collaborator; this package only calls its user-info endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned for missing, expired, or malformed tokens.
var ErrUnauthorized = errors.New("could not validate credentials")

// User the authenticated identity.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Verifier turns a bearer token into a User. Tests inject a static
// implementation.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// SupabaseVerifier calls the identity provider's GET /auth/v1/user.
type SupabaseVerifier struct {
	httpClient *resty.Client
}

func NewSupabaseVerifier(baseURL, apiKey string) *SupabaseVerifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("apikey", apiKey).
		SetHeader("Accept", "application/json")

	return &SupabaseVerifier{httpClient: client}
}

var _ Verifier = (*SupabaseVerifier)(nil)

func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	var user User
	resp, err := v.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	if resp.IsError() || user.ID == "" {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// StaticVerifier maps fixed tokens to users; test and local-dev helper.
type StaticVerifier struct {
	Users map[string]*User // token -> user
}

var _ Verifier = (*StaticVerifier)(nil)

func (v *StaticVerifier) Verify(_ context.Context, token string) (*User, error) {
	u, ok := v.Users[token]
	if !ok {
		return nil, ErrUnauthorized
	}
	return u, nil
}
