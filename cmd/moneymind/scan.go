package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
)

func scanCmd() *cobra.Command {
	var sender string

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Run a backlog of messages through detection",
		Long: `Run a file of messages through the detection pipeline, one message
per line. Lines may carry their own sender as "sender|body"; otherwise
--sender applies to every line. Useful for replaying an exported SMS
inbox. Duplicate messages are suppressed by the fingerprint store, so
re-scanning the same file is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open message file: %w", err)
			}
			defer func() { _ = f.Close() }()

			var lines []string
			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					lines = append(lines, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read message file: %w", err)
			}
			if len(lines) == 0 {
				return fmt.Errorf("no messages in %s", args[0])
			}

			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(len(lines),
				progressbar.OptionSetDescription("Scanning"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var detected, duplicates, skipped int
			// Backlog lines have no delivery timestamp of their own; spacing
			// them a millisecond apart keeps repeated lines distinguishable
			// within one scan while re-scans still fingerprint identically.
			base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

			for i, line := range lines {
				lineSender := sender
				body := line
				if before, after, found := strings.Cut(line, "|"); found {
					lineSender = strings.TrimSpace(before)
					body = strings.TrimSpace(after)
				}

				result, err := eng.ProcessSMS(cmd.Context(), lineSender, body, base.Add(time.Duration(i)*time.Millisecond))
				if err != nil {
					return err
				}
				switch {
				case result.Duplicate:
					duplicates++
				case result.Pending != nil:
					detected++
				default:
					skipped++
				}
				_ = bar.Add(1)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Scanned %d messages: %d detected, %d duplicates, %d without transactions.",
				len(lines), detected, duplicates, skipped)))
			if detected > 0 {
				fmt.Println(cli.SubtleStyle.Render("Run 'moneymind pending list' to review."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "sender applied to lines without their own \"sender|\" prefix")
	return cmd
}
