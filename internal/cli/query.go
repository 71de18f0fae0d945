// Package cli defines Cobra command definitions for the gavel CLI.
// This file contains the read-side commands: summary, ask, meetings.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/tui"
)

var (
	askMaxWords   int
	askShowScores bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the latest public meeting summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := newClient(cfg)

		summary, err := client.LatestSummary(context.Background())
		if err != nil {
			// Match the TUI: a fixed fallback rather than a bare error.
			fmt.Println(tui.SummaryFallback)
			return nil
		}

		if summary.MeetingDate != "" {
			fmt.Printf("Latest meeting: %s\n\n", summary.MeetingDate)
		}
		fmt.Println(summary.Summary)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against the uploaded minutes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("question must not be empty")
		}
		if askMaxWords < config.MinWords || askMaxWords > config.MaxWords {
			return fmt.Errorf("--max-words must be between %d and %d", config.MinWords, config.MaxWords)
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
		logger := newLogger()

		if logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:    log.EventQuerySubmitted,
				Query:    query,
				MaxWords: askMaxWords,
			})
		}

		result, err := client.Query(context.Background(), token, query, askMaxWords)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event: log.EventQueryFailed,
					Query: query,
					Error: err.Error(),
				})
			}
			return fmt.Errorf("query failed: %w", err)
		}

		if result.MeetingDate != "" {
			fmt.Printf("Answered from minutes of %s\n\n", result.MeetingDate)
		}
		fmt.Println(result.Answer)

		if askShowScores && len(result.Sources) > 0 {
			fmt.Printf("\nSources (%d):\n", result.SourcesCount)
			for i, s := range result.Sources {
				fmt.Printf("  %d. [%.1f%%] %s\n", i+1, s.Score*100, s.Text)
			}
		}
		return nil
	},
}

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "List uploaded meetings",
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

		meetings, err := client.Meetings(context.Background(), token)
		if err != nil {
			return fmt.Errorf("listing meetings: %w", err)
		}

		if len(meetings) == 0 {
			fmt.Println("No meetings uploaded yet.")
			return nil
		}

		for _, m := range meetings {
			fmt.Printf("%4d  %-32s  %s (uploaded %s)\n", m.ID, m.Date, m.Filename, m.UploadedAt)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&askMaxWords, "max-words", 300, "Answer length budget in words (50-1000)")
	askCmd.Flags().BoolVar(&askShowScores, "sources", false, "Show retrieved sources with relevance scores")
}
