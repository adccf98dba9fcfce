package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/habedi/suds/auth"
	"github.com/habedi/suds/client"
	"github.com/habedi/suds/config"
	"github.com/habedi/suds/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// skipSetup marks commands that run without configuration or database.
const skipSetup = "suds/skip-setup"

// app carries what the commands share. It is filled by setup before any
// command that needs it runs, or directly by tests.
type app struct {
	cfg   *config.Config
	store auth.CredentialStore
	api   *client.Client
	auth  *auth.Service

	// flag values from the root command
	configPath string
	apiURL     string
	dbPath     string
	timeout    time.Duration
	rateLimit  float64
	ownsDB     bool
}

// setup loads configuration, applies flag overrides, opens the credential
// database and builds the API client.
func (a *app) setup(cmd *cobra.Command) error {
	if a.api != nil || cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return configError(err)
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.apiURL
	}
	if flags.Changed("db-path") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = a.rateLimit
	}
	if err := cfg.Validate(); err != nil {
		return configError(err)
	}
	a.cfg = cfg

	if err := db.ConfigurePathErr(); err != nil {
		return internalError("resolve the database path", err)
	}
	if cfg.DBPath != "" {
		db.Path = cfg.DBPath
	}
	if err := db.InitDB(); err != nil {
		return internalError("open the credential database", err)
	}
	a.ownsDB = true

	a.store = auth.NewRepoStore(db.NewTokenRepository(db.GetDB()))
	a.api = client.New(cfg.APIURL, a.store,
		client.WithTimeout(cfg.Timeout),
		client.WithRateLimit(cfg.RateLimit),
	)
	a.auth = auth.NewService(a.store, a.api.Auth)
	log.Debug().Str("api_url", cfg.APIURL).Str("db", db.Path).Msg("Client configured")
	return nil
}

func (a *app) teardown() {
	if a.ownsDB {
		db.Shutdown()
		a.ownsDB = false
	}
}

// threads is the worker count for concurrent fetches.
func (a *app) threads() int {
	if a.cfg == nil || a.cfg.Threads < 1 {
		return 5
	}
	return a.cfg.Threads
}

// commandContext returns a context cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}
