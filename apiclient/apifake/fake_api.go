// Package apifake is an in-process stand-in for the marketplace API,
// implementing the login, refresh and role-scoped resource contract.
package apifake

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/jrsteele09/dental-session-client/users"
)

type account struct {
	password string
	profile  users.Profile
}

// Server is a fake marketplace API. Tokens are opaque strings minted in
// sequence ("access-1", "refresh-1", ...).
type Server struct {
	*httptest.Server

	lock          sync.Mutex
	accounts      map[string]account
	access        map[string]users.Profile
	refresh       map[string]users.Profile
	rotate        bool
	seq           int
	calls         map[string]int
	authHeaders   []string
	overrides     map[string]http.HandlerFunc
	refreshGate   chan struct{}
	refreshWaiter chan struct{}
}

func New() *Server {
	s := &Server{
		accounts:  make(map[string]account),
		access:    make(map[string]users.Profile),
		refresh:   make(map[string]users.Profile),
		calls:     make(map[string]int),
		overrides: make(map[string]http.HandlerFunc),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// AddAccount registers credentials for profile.Username.
func (s *Server) AddAccount(password string, profile users.Profile) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.accounts[profile.Username] = account{password: password, profile: profile}
}

// IssueTokens mints a token pair for profile as if it had logged in.
func (s *Server) IssueTokens(profile users.Profile) (string, string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.issueAccessLocked(profile), s.issueRefreshLocked(profile)
}

// RevokeAccess makes the server answer 401 for token.
func (s *Server) RevokeAccess(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.access, token)
}

// RevokeRefresh makes the refresh endpoint reject token.
func (s *Server) RevokeRefresh(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.refresh, token)
}

// RotateRefreshTokens makes every refresh single-use: a new refresh token
// is returned and the presented one is revoked.
func (s *Server) RotateRefreshTokens(rotate bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rotate = rotate
}

// Handle overrides the response for pattern ("METHOD /path").
func (s *Server) Handle(pattern string, h http.HandlerFunc) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.overrides[pattern] = h
}

// HoldRefresh blocks refresh requests until release is called. arrived is
// closed once the first refresh request is waiting.
func (s *Server) HoldRefresh() (arrived <-chan struct{}, release func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	gate := make(chan struct{})
	waiter := make(chan struct{})
	s.refreshGate = gate
	s.refreshWaiter = waiter
	var once sync.Once
	return waiter, func() { once.Do(func() { close(gate) }) }
}

// Calls returns how many requests matched "METHOD /path".
func (s *Server) Calls(pattern string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.calls[pattern]
}

// RefreshCalls returns how many refresh requests were received.
func (s *Server) RefreshCalls() int {
	return s.Calls(http.MethodPost + " /api/auth/refresh")
}

// AuthHeaders returns the Authorization header of every request, in order.
func (s *Server) AuthHeaders() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func (s *Server) issueAccessLocked(profile users.Profile) string {
	s.seq++
	token := fmt.Sprintf("access-%d", s.seq)
	s.access[token] = profile
	return token
}

func (s *Server) issueRefreshLocked(profile users.Profile) string {
	s.seq++
	token := fmt.Sprintf("refresh-%d", s.seq)
	s.refresh[token] = profile
	return token
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	pattern := r.Method + " " + r.URL.Path

	s.lock.Lock()
	s.calls[pattern]++
	s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
	override := s.overrides[pattern]
	s.lock.Unlock()

	if override != nil {
		override(w, r)
		return
	}

	switch {
	case pattern == "POST /api/auth/login":
		s.login(w, r)
	case pattern == "POST /api/auth/refresh":
		s.refreshToken(w, r)
	case pattern == "GET /api/constants":
		writeJSON(w, http.StatusOK, map[string]any{"specializations": []string{"orthodontics", "surgery"}})
	case strings.HasPrefix(r.URL.Path, "/api/"):
		s.resource(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}

	s.lock.Lock()
	acc, ok := s.accounts[req.Username]
	if !ok || acc.password != req.Password {
		s.lock.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		return
	}
	access := s.issueAccessLocked(acc.profile)
	refresh := s.issueRefreshLocked(acc.profile)
	s.lock.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"user":          acc.profile,
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
	})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	gate, waiter := s.refreshGate, s.refreshWaiter
	s.refreshWaiter = nil
	s.lock.Unlock()
	if waiter != nil {
		close(waiter)
	}
	if gate != nil {
		<-gate
	}

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return
	}

	s.lock.Lock()
	profile, ok := s.refresh[req.RefreshToken]
	if !ok {
		s.lock.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired refresh token"})
		return
	}
	resp := map[string]any{"access_token": s.issueAccessLocked(profile), "token_type": "Bearer"}
	if s.rotate {
		delete(s.refresh, req.RefreshToken)
		resp["refresh_token"] = s.issueRefreshLocked(profile)
	}
	s.lock.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
		return
	}

	s.lock.Lock()
	profile, ok := s.access[token]
	s.lock.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		return
	}

	if r.URL.Path == "/api/auth/me" {
		writeJSON(w, http.StatusOK, profile)
		return
	}

	segments := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/api/"), "/", 2)
	if !users.RoleType(segments[0]).Valid() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if users.RoleType(segments[0]) != profile.Role {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Insufficient permissions"})
		return
	}

	resp := map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
		"user":   profile.Username,
	}
	if q := r.URL.RawQuery; q != "" {
		resp["query"] = q
	}
	if body, _ := io.ReadAll(r.Body); len(body) > 0 {
		resp["body"] = json.RawMessage(body)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
