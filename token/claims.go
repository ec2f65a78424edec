// Package token reads the claims carried by marketplace access tokens.
//
// The client never holds the signing secret, so claims are parsed without
// verification and used only for display and diagnostics. The server remains
// the authority on whether a token is valid.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/jrsteele09/dental-session-client/users"
)

// ErrNotJWT is returned when the token is opaque or malformed.
var ErrNotJWT = errors.New("token is not a JWT")

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims mirrors the claims the marketplace backend signs into its tokens.
type Claims struct {
	UserID   uint           `json:"user_id"`
	Username string         `json:"username"`
	Role     users.RoleType `json:"role"`
	Type     string         `json:"type"` // access or refresh
	jwtlib.RegisteredClaims
}

// Inspect parses rawToken without verifying its signature.
func Inspect(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrNotJWT
	}
	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// Expiry returns the exp claim, or the zero time when it is absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the exp claim is in the past. Tokens without an
// exp claim never expire from the client's point of view.
func (c *Claims) Expired() bool {
	exp := c.Expiry()
	return !exp.IsZero() && !NowTimeFunc().Before(exp)
}

// ExpiresIn returns the time left before expiry, zero when already expired.
func (c *Claims) ExpiresIn() time.Duration {
	exp := c.Expiry()
	if exp.IsZero() {
		return 0
	}
	if d := exp.Sub(NowTimeFunc()); d > 0 {
		return d
	}
	return 0
}
