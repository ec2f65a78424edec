package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/jrsteele09/dental-session-client/apiclient"
	"github.com/jrsteele09/dental-session-client/guard"
	"github.com/jrsteele09/dental-session-client/internal/config"
	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/sessions/filestore"
	"github.com/jrsteele09/dental-session-client/shell"
	"github.com/jrsteele09/dental-session-client/token"
)

// runtime wires the session store, manager, client and shell for one
// command invocation.
type runtime struct {
	store    *filestore.FileStore
	sessions *sessions.Manager
	client   *apiclient.Client
	shell    *shell.Shell
}

func newRuntime(cfg config.Config, apiURL string) (*runtime, error) {
	key, err := cfg.GetSessionKey()
	if err != nil {
		return nil, err
	}
	store, err := filestore.New(cfg.GetSessionFile(), key)
	if err != nil {
		return nil, err
	}
	sm, err := sessions.NewManager(store)
	if err != nil {
		return nil, err
	}
	if err := sm.Initialize(); err != nil {
		log.Warn().Err(err).Str("file", store.Path()).Msg("starting without a stored session")
	}

	client, err := apiclient.New(
		firstNonEmpty(apiURL, cfg.GetAPIURL()),
		sm,
		apiclient.WithTimeout(cfg.GetHTTPTimeout()),
		apiclient.WithUserAgent("dentalctl"),
	)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		store:    store,
		sessions: sm,
		client:   client,
		shell:    shell.New(guard.DefaultTable(), sm, client),
	}
	rt.shell.Start()
	return rt, nil
}

func (rt *runtime) close() {
	rt.shell.Close()
}

func (rt *runtime) login(c *cli.Context) error {
	profile, outcome, err := rt.shell.Login(c.Context, c.String("username"), c.String("password"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Logged in as %s (%s)\n", profile.Username, profile.Role)
	fmt.Fprintf(c.App.Writer, "Landing route: %s\n", outcome.Path)
	return nil
}

func (rt *runtime) logout(c *cli.Context) error {
	rt.shell.Logout()
	fmt.Fprintln(c.App.Writer, "Logged out")
	return nil
}

func (rt *runtime) status(c *cli.Context) error {
	s := rt.sessions.Session()
	if !s.IsAuthenticated() {
		fmt.Fprintln(c.App.Writer, "Not logged in")
		return nil
	}

	fmt.Fprintf(c.App.Writer, "User:          %s (id %s)\n", s.User.Username, s.User.ID)
	fmt.Fprintf(c.App.Writer, "Role:          %s\n", s.User.Role)
	fmt.Fprintf(c.App.Writer, "Landing route: %s\n", guard.LandingRoute(s.User.Role))
	fmt.Fprintf(c.App.Writer, "Refreshable:   %t\n", s.RefreshToken != "")

	claims, err := token.Inspect(s.AccessToken)
	if err != nil {
		fmt.Fprintln(c.App.Writer, "Token:         opaque")
		return nil
	}
	switch exp := claims.Expiry(); {
	case exp.IsZero():
		fmt.Fprintln(c.App.Writer, "Token:         no expiry")
	case claims.Expired():
		fmt.Fprintf(c.App.Writer, "Token:         expired at %s (refreshed on next call)\n", exp.Format(time.RFC3339))
	default:
		fmt.Fprintf(c.App.Writer, "Token:         expires in %s\n", claims.ExpiresIn().Round(time.Second))
	}
	return nil
}

func (rt *runtime) me(c *cli.Context) error {
	profile, err := rt.client.Me(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c, profile)
}

func (rt *runtime) get(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("get expects exactly one PATH argument")
	}
	var out json.RawMessage
	if err := rt.client.Get(c.Context, c.Args().First(), nil, &out); err != nil {
		return err
	}
	return printJSON(c, out)
}

func (rt *runtime) route(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("route expects exactly one PATH argument")
	}
	outcome := rt.shell.Navigate(c.Args().First())
	fmt.Fprintf(c.App.Writer, "%s %s\n", outcome.Decision, outcome.Path)
	return nil
}

func printJSON(c *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(b))
	return nil
}
