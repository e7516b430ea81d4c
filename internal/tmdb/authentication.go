package tmdb

import (
	"context"
	"net/http"

	"github.com/narwhalmedia/reelscout/pkg/models"
)

// CreateRequestToken starts the login handshake.
func (c *Client) CreateRequestToken(ctx context.Context) (*models.RequestToken, error) {
	var token models.RequestToken
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "authentication/token/new",
		path:     "authentication/token/new",
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ValidateWithLogin authorises a request token with a username and password.
// TMDB answers 401 for bad credentials.
func (c *Client) ValidateWithLogin(ctx context.Context, username, password, requestToken string) (*models.RequestToken, error) {
	var token models.RequestToken
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "authentication/token/validate_with_login",
		path:     "authentication/token/validate_with_login",
		body: models.ValidateWithLoginRequest{
			Username:     username,
			Password:     password,
			RequestToken: requestToken,
		},
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// CreateSession exchanges a validated request token for a session id.
func (c *Client) CreateSession(ctx context.Context, requestToken string) (*models.SessionResponse, error) {
	var session models.SessionResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "authentication/session/new",
		path:     "authentication/session/new",
		body:     map[string]string{"request_token": requestToken},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession revokes a session id.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "authentication/session",
		path:     "authentication/session",
		body:     map[string]string{"session_id": sessionID},
	}, nil)
}

// Account returns the profile of the session's account.
func (c *Client) Account(ctx context.Context, sessionID string) (*models.Profile, error) {
	var profile models.Profile
	err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "account",
		path:     "account",
		query:    sessionQuery(sessionID),
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
