// Package main is the entry point for the manifold CLI: a host around the
// adapter capability layer that assembles a registry, applies an
// authorization policy, and exposes introspection, resolution, and health
// sweeps from the command line.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for the grant store
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/normanking/manifold/internal/config"
	"github.com/normanking/manifold/internal/logging"
	"github.com/normanking/manifold/internal/policy"
	"github.com/normanking/manifold/internal/sim"
	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
)

var (
	version = "0.1.0"

	cfgPath   string
	verbose   bool
	principal string

	cfg      *config.Config
	log      zerolog.Logger
	closeLog func() error
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manifold",
		Short: "Manifold - capability registry for pluggable data-source adapters",
		Long: `Manifold hosts pluggable data-source adapters and resolves their
capabilities for callers: which adapter, which feature, and whether the
caller is entitled to use it. Health of every adapter and feature is
aggregated into a single status.

List adapters:          manifold adapters
Inspect capabilities:   manifold capabilities sim
Resolve a capability:   manifold resolve sim tags.browse --principal alice
Run a health sweep:     manifold health`,
		PersistentPreRunE: initHost,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.manifold/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&principal, "principal", "", "caller identity for resolution and health commands")

	rootCmd.AddCommand(
		versionCmd(),
		adaptersCmd(),
		capabilitiesCmd(),
		resolveCmd(),
		healthCmd(),
		grantCmd(),
		revokeCmd(),
		apikeyCmd(),
	)

	defer func() {
		if closeLog != nil {
			closeLog()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styleError.Render("error:"), err)
		os.Exit(1)
	}
}

// initHost loads configuration and sets up logging before any command runs.
func initHost(cmd *cobra.Command, _ []string) error {
	path := cfgPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.LoadFromPath(path)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, closeLog, err = logging.Setup(logging.Options{
		Level:   level,
		File:    cfg.Logging.File,
		NoColor: termenv.EnvColorProfile() == termenv.Ascii,
	})
	return err
}

// newCallContext builds the call context for one CLI invocation.
func newCallContext() *callctx.Context {
	opts := []callctx.Option{}
	if principal != "" {
		opts = append(opts, callctx.WithPrincipal(&callctx.Principal{Subject: principal}))
	}
	return callctx.New(opts...)
}

// buildRegistry assembles the adapter registry from configuration.
func buildRegistry() (*adapter.MemoryRegistry, error) {
	registry := adapter.NewMemoryRegistry()

	if cfg.Adapters.Sim.Enabled {
		period, err := time.ParseDuration(cfg.Adapters.Sim.Period)
		if err != nil {
			return nil, fmt.Errorf("adapters.sim.period: %w", err)
		}
		simAdapter := sim.New(sim.Options{
			TagCount: cfg.Adapters.Sim.TagCount,
			Period:   period,
		}, log)
		if err := registry.Register("sim", simAdapter); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// buildPolicy selects the authorization policy from configuration. The
// returned close function releases the grant store, if one was opened.
func buildPolicy() (adapter.AuthorizationPolicy, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Policy.Mode {
	case "", "allow":
		return policy.AllowAll{}, noop, nil
	case "deny":
		return policy.DenyAll{}, noop, nil
	case "rules":
		p, err := policy.LoadRulesFile(cfg.Policy.RulesPath)
		if err != nil {
			return nil, nil, err
		}
		return p, noop, nil
	case "store":
		store, db, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		return policy.NewStorePolicy(store), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown policy mode %q", cfg.Policy.Mode)
	}
}

// openStore opens and initializes the SQLite grant store.
func openStore() (*policy.Store, *sql.DB, error) {
	if cfg.Policy.StorePath == "" {
		return nil, nil, fmt.Errorf("policy.store_path must be set for policy mode %q", cfg.Policy.Mode)
	}
	db, err := sql.Open("sqlite3", cfg.Policy.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open grant store: %w", err)
	}
	store := policy.NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}
