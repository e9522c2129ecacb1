package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/storage"
	"github.com/atelieapp/unify/internal/unify"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	dbPathFlag string

	// store and engine are opened by the root PersistentPreRunE and shared
	// by every subcommand that touches data.
	store  storage.Storage
	engine *unify.Engine

	// resolvedDBPath is the path the store was opened with; merge and undo
	// use it to place the lock file.
	resolvedDBPath string
)

var rootCmd = &cobra.Command{
	Use:   "unify",
	Short: "Find and merge duplicate records",
	Long: `unify detects near-duplicate clients and services (casing, accents,
typos, stray whitespace) and merges them safely: appointments are
re-pointed at the surviving record and every merge is recorded so it
can be undone.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that run before a database exists skip the store.
		switch cmd.Name() {
		case "init", "help", "version", "completion":
			return nil
		}

		dbPath := dbPathFlag
		if dbPath == "" {
			var err error
			dbPath, err = storage.DiscoverDatabase()
			if err != nil {
				return err
			}
		}

		resolvedDBPath = dbPath
		s, err := storage.NewStorage(context.Background(), &storage.Config{Path: dbPath})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		store = s

		cfg, err := engineConfig(dbPath)
		if err != nil {
			s.Close()
			return err
		}

		e, err := unify.NewEngine(store, cfg)
		if err != nil {
			s.Close()
			return err
		}
		engine = e
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// engineConfig layers configuration: project config.yaml under environment
// variables. Flags override later, per command.
func engineConfig(dbPath string) (unify.Config, error) {
	cfg, err := unify.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}

	project, err := storage.LoadProjectConfig(dbPath)
	if err != nil {
		return cfg, err
	}
	if os.Getenv("UNIFY_THRESHOLD") == "" {
		cfg.Threshold = project.DefaultThreshold
	}
	if os.Getenv("UNIFY_COMPARISON_FIELD") == "" {
		cfg.ComparisonField = project.ComparisonField
	}

	return cfg, cfg.Validate()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (default: discover .unify/*.db in current directory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
