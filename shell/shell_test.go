package shell_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/dental-session-client/apiclient"
	"github.com/jrsteele09/dental-session-client/apiclient/apifake"
	"github.com/jrsteele09/dental-session-client/guard"
	"github.com/jrsteele09/dental-session-client/internal/errors"
	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/sessions/storefakes"
	"github.com/jrsteele09/dental-session-client/shell"
	"github.com/jrsteele09/dental-session-client/users"
	"github.com/stretchr/testify/require"
)

var testClinic = users.Profile{ID: "2", Username: "clinic1", Role: users.RoleClinic}

type fixture struct {
	api    *apifake.Server
	sm     *sessions.Manager
	client *apiclient.Client
	sh     *shell.Shell
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	api := apifake.New()
	t.Cleanup(api.Close)
	api.AddAccount("password", testClinic)

	sm, err := sessions.NewManager(storefakes.NewMemoryStore())
	require.NoError(t, err)
	client, err := apiclient.New(api.URL, sm)
	require.NoError(t, err)

	sh := shell.New(guard.DefaultTable(), sm, client)
	t.Cleanup(sh.Close)
	return &fixture{api: api, sm: sm, client: client, sh: sh}
}

func setup(t *testing.T) (*apifake.Server, *sessions.Manager, *shell.Shell) {
	f := setupFixture(t)
	return f.api, f.sm, f.sh
}

func TestStartWithoutSession(t *testing.T) {
	_, _, sh := setup(t)
	require.Equal(t, guard.RouteLogin, sh.Start().Path)
	require.Equal(t, guard.RouteLogin, sh.Current())
}

func TestLoginNavigatesToLanding(t *testing.T) {
	_, _, sh := setup(t)

	profile, outcome, err := sh.Login(context.Background(), "clinic1", "password")
	require.NoError(t, err)
	require.Equal(t, users.RoleClinic, profile.Role)
	require.Equal(t, guard.Permitted, outcome.Decision)
	require.Equal(t, guard.RouteClinicDashboard, sh.Current())

	require.Equal(t, guard.RedirectUnauthorized, sh.Navigate(guard.RoutePatientDashboard).Decision)
	require.Equal(t, guard.RouteUnauthorized, sh.Current())
}

func TestLoginFailureStaysPut(t *testing.T) {
	_, _, sh := setup(t)

	_, outcome, err := sh.Login(context.Background(), "clinic1", "nope")
	require.True(t, errors.Is(err, errors.ErrRequestFailed))
	require.Equal(t, guard.RouteLogin, outcome.Path)
	require.Equal(t, guard.RouteLogin, sh.Current())
}

func TestStartWithRestoredSession(t *testing.T) {
	api, sm, sh := setup(t)
	access, refresh := api.IssueTokens(testClinic)
	require.NoError(t, sm.Login(access, refresh, testClinic))

	require.Equal(t, guard.RouteClinicDashboard, sh.Start().Path)
}

func TestLogoutResetsBeforeNavigating(t *testing.T) {
	_, sm, sh := setup(t)
	_, _, err := sh.Login(context.Background(), "clinic1", "password")
	require.NoError(t, err)

	outcome := sh.Logout()
	require.Equal(t, guard.Permitted, outcome.Decision)
	require.Equal(t, guard.RouteLogin, sh.Current())
	require.False(t, sm.Session().IsAuthenticated())

	require.Equal(t, guard.RedirectLogin, sh.Navigate(guard.RouteClinicDashboard).Decision)
}

func TestAuthExpiryNavigatesToLogin(t *testing.T) {
	f := setupFixture(t)
	access, refresh := f.api.IssueTokens(testClinic)
	require.NoError(t, f.sm.Login(access, refresh, testClinic))
	f.sh.Start()
	require.Equal(t, guard.RouteClinicDashboard, f.sh.Current())

	f.api.RevokeAccess(access)
	f.api.RevokeRefresh(refresh)

	_, err := f.client.Clinic().Dashboard(context.Background())
	require.True(t, errors.Is(err, errors.ErrAuthExpired))
	require.Equal(t, guard.RouteLogin, f.sh.Current())
	require.False(t, f.sm.Session().IsAuthenticated())
}

func TestCloseStopsFollowingExpiry(t *testing.T) {
	f := setupFixture(t)
	access, _ := f.api.IssueTokens(testClinic)
	require.NoError(t, f.sm.Login(access, "", testClinic))
	f.sh.Start()
	f.sh.Close()

	f.api.RevokeAccess(access)
	_, err := f.client.Clinic().Dashboard(context.Background())
	require.True(t, errors.Is(err, errors.ErrAuthExpired))
	require.Equal(t, guard.RouteClinicDashboard, f.sh.Current())
}
