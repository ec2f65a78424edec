package sessions

import (
	"golang.org/x/oauth2"

	"github.com/jrsteele09/dental-session-client/users"
)

// Persisted store keys. All of them are written on login and cleared together.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"

	// KeyLegacyAccessToken is accepted on read as an alias of KeyToken.
	KeyLegacyAccessToken = "access_token"
)

// Session is a point-in-time view of who is logged in.
// User is non-nil iff AccessToken is non-empty.
type Session struct {
	AccessToken  string         // Bearer credential attached to API calls
	RefreshToken string         // Optional, exchanged for a new access token on 401
	User         *users.Profile // Cached profile returned at login
}

// IsAuthenticated is true iff an access token is present.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Role returns the user's role, or "" for an empty session.
func (s Session) Role() users.RoleType {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// OAuth2Token returns the session credentials as an oauth2 token, or nil when
// the session is empty.
func (s Session) OAuth2Token() *oauth2.Token {
	if !s.IsAuthenticated() {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
	}
}
