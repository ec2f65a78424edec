package apiclient

import (
	"github.com/jrsteele09/dental-session-client/users"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	// User is the profile of the authenticated account.
	User users.Profile `json:"user"`

	// AccessToken is attached as "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged at /api/auth/refresh when the access token
	// is rejected. Optional.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the RFC 3339 expiry of the access token, informational only.
	ExpiresAt string `json:"expires_at,omitempty"`

	TokenType string `json:"token_type,omitempty"`
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries the new access token. A non-empty RefreshToken
// means the server rotated it.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// errorBody covers the error shapes the backend and proxies return.
type errorBody struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorBody) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	default:
		return e.ErrorDescription
	}
}
