// Package cli defines Cobra command definitions for the gavel CLI.
// This file contains the authentication commands: login, logout, whoami.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gavel-dev/gavel/internal/log"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the service and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := newClient(cfg)
		logger := newLogger()

		username := loginUsername
		if username == "" {
			fmt.Print("Username: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
			username = strings.TrimSpace(line)
		}
		if username == "" {
			return fmt.Errorf("username is required")
		}

		password, err := readPassword()
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		res, err := client.Login(context.Background(), username, password)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event:    log.EventLoginFailed,
					Username: username,
					Error:    err.Error(),
				})
			}
			return fmt.Errorf("login failed: %w", err)
		}

		profile, err := client.Me(context.Background(), res.AccessToken)
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.Save(profile.Username, profile.Role, res.AccessToken, client.BaseURL()); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}

		if logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:    log.EventLoginSucceeded,
				Username: profile.Username,
				Role:     profile.Role,
			})
		}

		fmt.Printf("Logged in as %s (%s)\n", profile.Username, profile.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}

		if logger := newLogger(); logger != nil {
			_ = logger.Append(log.LogEvent{Event: log.EventLogout})
		}

		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session's user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		token, err := currentToken(store)
		if err != nil {
			return err
		}

		cfg := loadConfig()
		client := newClient(cfg)

		profile, err := client.Me(context.Background(), token)
		if err != nil {
			// The stored token is no longer valid; discard it silently,
			// matching the TUI's startup behavior.
			_ = store.Clear()
			return fmt.Errorf("session expired; run 'gavel login' again")
		}

		fmt.Printf("%s (%s) <%s>\n", profile.Username, profile.Role, profile.Email)
		return nil
	},
}

// readPassword prompts for a password without echoing when stdin is a
// terminal, falling back to a plain line read otherwise.
func readPassword() (string, error) {
	fmt.Print("Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(data), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username to log in with")
}
