package sessions

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/dental-session-client/internal/errors"
	"github.com/jrsteele09/dental-session-client/users"
)

// Manager is the single source of truth for who is logged in. It owns the
// persisted Store: every write to it goes through Login, Logout or
// UpdateTokens.
type Manager struct {
	store   Store
	lock    sync.RWMutex
	session Session
}

// NewManager creates an empty session manager backed by store.
// Call Initialize to rehydrate from a previous run.
func NewManager(store Store) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("[sessions NewManager] nil store: %w", errors.ErrConfiguration)
	}
	return &Manager{store: store}, nil
}

// Initialize rehydrates the session from the persisted store. No network
// call is made; the token is trusted until an API call proves otherwise.
// When the store cannot be read or holds a partial or corrupt entry the
// session stays empty.
func (m *Manager) Initialize() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.session = Session{}

	token, err := m.readToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to read persisted token")
		return errors.Wrapf(err, "[sessions Initialize] read token")
	}
	rawUser, hasUser, err := m.store.Get(KeyUser)
	if err != nil {
		log.Error().Err(err).Msg("failed to read persisted user")
		return errors.Wrapf(err, "[sessions Initialize] read user")
	}
	if token == "" || !hasUser || rawUser == "" {
		return nil
	}

	profile, err := users.Unmarshal(rawUser)
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable persisted user")
		return fmt.Errorf("[sessions Initialize] %w: %v", errors.ErrInvalidProfile, err)
	}

	refresh, _, err := m.store.Get(KeyRefreshToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to read persisted refresh token")
		return errors.Wrapf(err, "[sessions Initialize] read refresh token")
	}

	m.session = Session{AccessToken: token, RefreshToken: refresh, User: &profile}
	log.Debug().Str("username", profile.Username).Str("role", string(profile.Role)).Msg("session restored")
	return nil
}

func (m *Manager) readToken() (string, error) {
	token, ok, err := m.store.Get(KeyToken)
	if err != nil || (ok && token != "") {
		return token, err
	}
	token, _, err = m.store.Get(KeyLegacyAccessToken)
	return token, err
}

// Login persists the credentials and profile, then replaces the in-memory
// session in one step. An empty refreshToken removes any stale stored one.
func (m *Manager) Login(accessToken, refreshToken string, user users.Profile) error {
	if accessToken == "" {
		return fmt.Errorf("[sessions Login] empty access token: %w", errors.ErrInvalidToken)
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("[sessions Login] %w: %v", errors.ErrInvalidProfile, err)
	}
	rawUser, err := user.Marshal()
	if err != nil {
		return fmt.Errorf("[sessions Login] %w: %v", errors.ErrInvalidProfile, err)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	// Replace drops a stale refresh token or legacy key, and overwrites an
	// unreadable store, in the same write.
	values := map[string]string{KeyToken: accessToken, KeyUser: rawUser}
	if refreshToken != "" {
		values[KeyRefreshToken] = refreshToken
	}
	if err := m.store.Replace(values); err != nil {
		m.teardownLocked()
		return errors.Wrapf(err, "[sessions Login] persist session")
	}

	m.session = Session{AccessToken: accessToken, RefreshToken: refreshToken, User: &user}
	log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("logged in")
	return nil
}

// Logout clears the persisted store and the in-memory session. Calling it on
// an empty session is a no-op with the same end state.
func (m *Manager) Logout() {
	m.lock.Lock()
	defer m.lock.Unlock()

	wasAuthenticated := m.session.IsAuthenticated()
	m.teardownLocked()
	if wasAuthenticated {
		log.Info().Msg("logged out")
	}
}

func (m *Manager) teardownLocked() {
	m.session = Session{}
	if err := m.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear persisted session")
	}
}

// UpdateTokens stores a refreshed access token, and a rotated refresh token
// when one is given. It fails with ErrSessionNotFound when the session was
// torn down while the refresh was in flight.
func (m *Manager) UpdateTokens(accessToken, refreshToken string) error {
	if accessToken == "" {
		return fmt.Errorf("[sessions UpdateTokens] empty access token: %w", errors.ErrInvalidToken)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.session.IsAuthenticated() {
		return fmt.Errorf("[sessions UpdateTokens] %w", errors.ErrSessionNotFound)
	}

	values := map[string]string{KeyToken: accessToken}
	if refreshToken != "" {
		values[KeyRefreshToken] = refreshToken
	}
	if err := m.store.SetMany(values); err != nil {
		m.teardownLocked()
		return errors.Wrapf(err, "[sessions UpdateTokens] persist tokens")
	}

	m.session.AccessToken = accessToken
	if refreshToken != "" {
		m.session.RefreshToken = refreshToken
	}
	log.Debug().Msg("access token refreshed")
	return nil
}

// Session returns a snapshot of the current session. The returned profile is
// a copy.
func (m *Manager) Session() Session {
	m.lock.RLock()
	defer m.lock.RUnlock()

	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// IsAuthenticated reports whether an access token is currently held.
func (m *Manager) IsAuthenticated() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.session.IsAuthenticated()
}

// Token returns the current credentials as an oauth2 token, or nil.
func (m *Manager) Token() *oauth2.Token {
	return m.Session().OAuth2Token()
}
