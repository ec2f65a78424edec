// Package shell is the top-level navigator. It owns the current view path
// and is the only component that reacts to an expired session by moving the
// user back to the login view.
package shell

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/dental-session-client/apiclient"
	"github.com/jrsteele09/dental-session-client/guard"
	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/users"
)

// Session is the read side of sessions.Manager.
type Session interface {
	Session() sessions.Session
}

// Shell routes every navigation through the access guard.
type Shell struct {
	table       guard.Table
	sessions    Session
	client      *apiclient.Client
	unsubscribe func()

	lock    sync.RWMutex
	current string
}

// New creates a shell positioned on the login view and subscribes it to
// session expiry reported by client.
func New(table guard.Table, sm Session, client *apiclient.Client) *Shell {
	s := &Shell{
		table:    table,
		sessions: sm,
		client:   client,
		current:  guard.RouteLogin,
	}
	s.unsubscribe = client.OnAuthExpired(func(err error) {
		log.Info().Err(err).Msg("session expired, returning to login")
		s.Navigate(guard.RouteLogin)
	})
	return s
}

// Close stops listening for session expiry.
func (s *Shell) Close() {
	s.unsubscribe()
}

// Navigate evaluates the guard for path against the current session and
// moves to the permitted path or the redirect target.
func (s *Shell) Navigate(path string) guard.Outcome {
	outcome := s.table.Resolve(path, s.sessions.Session())

	s.lock.Lock()
	s.current = outcome.Path
	s.lock.Unlock()

	log.Debug().Str("requested", path).Str("decision", outcome.Decision.String()).Str("path", outcome.Path).Msg("navigate")
	return outcome
}

// Current returns the path of the view being shown.
func (s *Shell) Current() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current
}

// Start navigates to the landing route of a restored session, or to login.
func (s *Shell) Start() guard.Outcome {
	session := s.sessions.Session()
	if !session.IsAuthenticated() {
		return s.Navigate(guard.RouteLogin)
	}
	return s.Navigate(guard.LandingRoute(session.Role()))
}

// Login authenticates and navigates to the role's landing route.
func (s *Shell) Login(ctx context.Context, username, password string) (*users.Profile, guard.Outcome, error) {
	profile, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, guard.Outcome{Decision: guard.RedirectLogin, Path: s.Current()}, err
	}
	return profile, s.Navigate(guard.LandingRoute(profile.Role)), nil
}

// Logout clears the session before navigating, so the next guard
// evaluation already sees the empty session.
func (s *Shell) Logout() guard.Outcome {
	s.client.Logout()
	return s.Navigate(guard.RouteLogin)
}
