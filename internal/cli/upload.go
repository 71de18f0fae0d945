// Package cli defines Cobra command definitions for the gavel CLI.
// This file contains the upload command.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gavel-dev/gavel/internal/log"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF of meeting minutes for indexing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
			return fmt.Errorf("only PDF files are accepted")
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

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		cfg := loadConfig()
		client := newClient(cfg)
		logger := newLogger()

		fmt.Printf("Uploading %s...\n", path)
		result, err := client.Upload(context.Background(), token, path, f)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event:    log.EventUploadFailed,
					Filename: path,
					Error:    err.Error(),
				})
			}
			return fmt.Errorf("upload failed: %w", err)
		}

		if logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:       log.EventUploadCompleted,
				Filename:    path,
				MeetingID:   result.MeetingID,
				MeetingDate: result.MeetingDate,
			})
		}

		fmt.Printf("Uploaded - minutes for %s indexed (%d chunks)\n", result.MeetingDate, result.TotalChunks)
		if result.Summary != "" {
			fmt.Printf("\n%s\n", result.Summary)
		}
		return nil
	},
}
