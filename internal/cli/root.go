// Package cli defines Cobra command definitions for the gavel CLI.
// This file contains the root command, version flag, and shared wiring.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
	"github.com/gavel-dev/gavel/internal/tui"
	"github.com/gavel-dev/gavel/internal/tui/app"
)

var (
	serverURL string
	version   = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "gavel",
	Short: "Terminal client for the meeting-minutes Q&A service",
	Long: `Gavel is a terminal client for a meeting-minutes question-answering
service. It shows the latest meeting summary, lets authenticated users
upload PDF minutes, and answers natural-language questions against the
uploaded minutes.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch the TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		cfg := loadConfig()
		client := newClient(cfg)

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		logger := newLogger()

		tuiApp := app.New(cfg, client, store, logger)
		return tui.Run(tuiApp)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Service URL (overrides config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(meetingsCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(auditCmd)
}

// ============================================================================
// Shared Wiring
// ============================================================================

// loadConfig reads the user config, applying the --server override.
func loadConfig() *config.Config {
	cfg := config.Load()
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	return cfg
}

// newClient builds the API client from cfg.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Server.URL, time.Duration(cfg.Server.Timeout)*time.Second)
}

// openStore opens the session database under ~/.gavel.
func openStore() (*session.Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return session.NewStore(filepath.Join(dir, "gavel.db"))
}

// newLogger opens the event log under ~/.gavel. A logger failure is not
// fatal; callers tolerate a nil logger.
func newLogger() *log.Logger {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	logger, err := log.NewLogger(dir)
	if err != nil {
		return nil
	}
	return logger
}

// currentToken returns the live bearer token, or an error when logged out.
func currentToken(store *session.Store) (string, error) {
	token, err := store.Token()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("not logged in; run 'gavel login' first")
	}
	return token, nil
}
