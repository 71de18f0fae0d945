// Package cli defines Cobra command definitions for the gavel CLI.
// This file contains the admin commands: register, remove, audit.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/log"
)

var (
	registerEmail string
	registerRole  string
	auditLimit    int
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a new user account on the service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		if registerEmail == "" {
			return fmt.Errorf("--email is required")
		}
		switch registerRole {
		case api.RoleAdmin, api.RoleSecretary, api.RoleUser:
		default:
			return fmt.Errorf("--role must be admin, secretary or user")
		}

		password, err := readPassword()
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		cfg := loadConfig()
		client := newClient(cfg)

		res, err := client.Register(context.Background(), username, registerEmail, password, registerRole)
		if err != nil {
			return fmt.Errorf("register failed: %w", err)
		}

		fmt.Printf("Created user %s (id %d)\n", username, res.UserID)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <meeting-id>",
	Short: "Delete a meeting and its index (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("meeting-id must be a number")
		}

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

		if err := client.DeleteMeeting(context.Background(), token, id); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		if logger := newLogger(); logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:     log.EventMeetingDeleted,
				MeetingID: id,
			})
		}

		fmt.Printf("Deleted meeting %d\n", id)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent query logs from the service (admin only)",
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

		logs, err := client.QueryLogs(context.Background(), token, auditLimit)
		if err != nil {
			return fmt.Errorf("fetching query logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No queries logged yet.")
			return nil
		}

		for _, entry := range logs {
			fmt.Printf("%s  user=%d  %q\n", entry.Timestamp, entry.UserID, entry.Query)
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address for the new account")
	registerCmd.Flags().StringVar(&registerRole, "role", api.RoleUser, "Account role: admin, secretary or user")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "Maximum number of log entries to show")
}
