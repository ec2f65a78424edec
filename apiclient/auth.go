package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/dental-session-client/internal/errors"
	"github.com/jrsteele09/dental-session-client/users"
)

// Login exchanges credentials for tokens and stores the new session.
// It is sent without a bearer token and never triggers a refresh.
func (c *Client) Login(ctx context.Context, username, password string) (*users.Profile, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("[apiclient Login] username and password are required: %w", errors.ErrInvalidCredentials)
	}

	resp, err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   RouteAuthLogin,
		Body:   LoginRequest{Username: username, Password: password},
	}, "")
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		log.Info().Str("username", username).Int("status", resp.status).Msg("login rejected")
		return nil, newRequestFailed(resp.status, resp.body, "login failed")
	}

	var out LoginResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("[apiclient Login] decode: %w", err)
	}
	if err := c.sessions.Login(out.AccessToken, out.RefreshToken, out.User); err != nil {
		return nil, errors.Wrapf(err, "[apiclient Login]")
	}
	return &out.User, nil
}

// Logout ends the local session. The backend keeps no server-side session
// for bearer tokens, so no request is made.
func (c *Client) Logout() {
	c.sessions.Logout()
}

// Me returns the profile of the token holder.
func (c *Client) Me(ctx context.Context) (*users.Profile, error) {
	var p users.Profile
	if err := c.Get(ctx, RouteAuthMe, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Constants fetches the public reference data used to render forms.
func (c *Client) Constants(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.send(ctx, Request{Method: http.MethodGet, Path: RouteConstants}, "")
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := resp.decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
