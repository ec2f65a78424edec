package filestore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsteele09/dental-session-client/internal/errors"
	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/sessions/filestore"
	"github.com/jrsteele09/dental-session-client/users"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) *[32]byte {
	var k [32]byte
	for i := range k {
		k[i] = b
	}
	return &k
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs, err := filestore.New(path, nil)
	require.NoError(t, err)

	_, ok, err := fs.Get(sessions.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.SetMany(map[string]string{sessions.KeyToken: "t1", sessions.KeyUser: `{"id":1}`}))

	v, ok, err := fs.Get(sessions.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, fs.Replace(map[string]string{sessions.KeyRefreshToken: "r1"}))
	_, ok, err = fs.Get(sessions.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
	v, ok, err = fs.Get(sessions.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "r1", v)

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFileStoreEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs, err := filestore.New(path, testKey(7))
	require.NoError(t, err)
	require.NoError(t, fs.SetMany(map[string]string{sessions.KeyToken: "secret-token"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "secret-token"))

	v, _, err := fs.Get(sessions.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "secret-token", v)

	wrongKey, err := filestore.New(path, testKey(8))
	require.NoError(t, err)
	_, _, err = wrongKey.Get(sessions.KeyToken)
	require.True(t, errors.Is(err, errors.ErrStoreCorrupted))
}

func TestFileStoreCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	fs, err := filestore.New(path, nil)
	require.NoError(t, err)
	_, _, err = fs.Get(sessions.KeyToken)
	require.True(t, errors.Is(err, errors.ErrStoreCorrupted))
}

func TestLoginOverUnreadableFile(t *testing.T) {
	tests := []struct {
		name  string
		write func(t *testing.T, path string)
	}{
		{
			name: "malformed json",
			write: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
			},
		},
		{
			name: "sealed with another key",
			write: func(t *testing.T, path string) {
				other, err := filestore.New(path, testKey(1))
				require.NoError(t, err)
				require.NoError(t, other.SetMany(map[string]string{sessions.KeyToken: "old"}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			tt.write(t, path)

			fs, err := filestore.New(path, testKey(2))
			require.NoError(t, err)
			m, err := sessions.NewManager(fs)
			require.NoError(t, err)

			err = m.Initialize()
			require.True(t, errors.Is(err, errors.ErrStoreCorrupted))
			require.False(t, m.IsAuthenticated())

			profile := users.Profile{ID: "1", Username: "patient", Role: users.RolePatient}
			require.NoError(t, m.Login("access-1", "refresh-1", profile))
			require.True(t, m.IsAuthenticated())

			v, ok, err := fs.Get(sessions.KeyToken)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "access-1", v)
		})
	}
}

func TestNewRequiresPath(t *testing.T) {
	_, err := filestore.New("", nil)
	require.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestManagerSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	key := testKey(3)

	fs, err := filestore.New(path, key)
	require.NoError(t, err)
	m, err := sessions.NewManager(fs)
	require.NoError(t, err)
	profile := users.Profile{ID: "5", Username: "clinic1", Role: users.RoleClinic}
	require.NoError(t, m.Login("access-1", "refresh-1", profile))

	reopened, err := filestore.New(path, key)
	require.NoError(t, err)
	restored, err := sessions.NewManager(reopened)
	require.NoError(t, err)
	require.NoError(t, restored.Initialize())

	s := restored.Session()
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "access-1", s.AccessToken)
	require.Equal(t, "refresh-1", s.RefreshToken)
	require.Equal(t, profile, *s.User)
}
