package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/jrsteele09/dental-session-client/internal/config"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var rt *runtime

	return &cli.App{
		Name:      "dentalctl",
		Usage:     "work with the dental marketplace API as a patient, clinic or regulator",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "load environment variables from `FILE`"},
			&cli.StringFlag{Name: "api-url", Usage: "override API_URL"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
			&cli.BoolFlag{Name: "banner", Usage: "print the application banner"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			configureLogging(stderr, firstNonEmpty(c.String("log-level"), cfg.GetLogLevel()), cfg.GetEnv())
			if c.Bool("banner") {
				displayAppname(stdout, cfg.GetAppName())
			}
			rt, err = newRuntime(cfg, c.String("api-url"))
			return err
		},
		After: func(c *cli.Context) error {
			if rt != nil {
				rt.close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "authenticate and store the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"DENTAL_PASSWORD"}},
				},
				Action: func(c *cli.Context) error { return rt.login(c) },
			},
			{
				Name:   "logout",
				Usage:  "clear the stored session",
				Action: func(c *cli.Context) error { return rt.logout(c) },
			},
			{
				Name:   "status",
				Usage:  "show the stored session",
				Action: func(c *cli.Context) error { return rt.status(c) },
			},
			{
				Name:   "me",
				Usage:  "fetch the profile of the signed-in user",
				Action: func(c *cli.Context) error { return rt.me(c) },
			},
			{
				Name:      "get",
				Usage:     "send an authenticated GET and print the JSON response",
				ArgsUsage: "PATH",
				Action:    func(c *cli.Context) error { return rt.get(c) },
			},
			{
				Name:      "route",
				Usage:     "show the access decision for a view path",
				ArgsUsage: "PATH",
				Action:    func(c *cli.Context) error { return rt.route(c) },
			},
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("env-file"); path != "" {
		cfg, err := config.NewFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.New(), nil
}

func configureLogging(w io.Writer, level, env string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if env == "DEV" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
