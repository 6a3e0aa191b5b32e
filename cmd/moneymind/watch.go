package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
	"github.com/ndquangr/moneymind/internal/engine"
	"github.com/ndquangr/moneymind/internal/model"
)

func watchCmd() *cobra.Command {
	var dir string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a drop directory for message files",
		Long: `Poll a directory for message files and run each through detection.

A .sms file holds the sender on the first line and the body after it.
A .eml file holds sender, then subject, then the body. Processed files
are renamed with a .done suffix. Passes never overlap: if one pass is
still running when the interval elapses, the tick is skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("cannot watch %s: %w", dir, err)
			}

			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng.OnDetected(func(pending model.PendingTransaction) {
				fmt.Println(cli.FormatSuccess("Detected:"))
				fmt.Println("  " + cli.FormatPendingLine(&pending))
			})

			poller := engine.NewPoller(interval, func(ctx context.Context) error {
				return drainDirectory(ctx, eng, dir)
			})

			fmt.Println(cli.FormatTitle("Watching " + dir))
			poller.Start(cmd.Context())

			<-cmd.Context().Done()
			poller.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to poll for .sms and .eml files")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "poll interval")
	return cmd
}

// drainDirectory is one poll pass: process every message file, then rename
// it so the next pass skips it. The fingerprint store still protects
// against double processing if a rename fails.
func drainDirectory(ctx context.Context, eng *engine.Engine, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read watch directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".sms" && ext != ".eml" {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		path := filepath.Join(dir, entry.Name())
		if err := processMessageFile(ctx, eng, path, ext); err != nil {
			slog.Warn("Failed to process message file", "file", entry.Name(), "error", err)
			continue
		}

		if err := os.Rename(path, path+".done"); err != nil {
			slog.Warn("Failed to rename processed file", "file", entry.Name(), "error", err)
		}
	}

	return nil
}

func processMessageFile(ctx context.Context, eng *engine.Engine, path, ext string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	receivedAt := info.ModTime()

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.SplitN(content, "\n", 3)

	switch ext {
	case ".sms":
		if len(lines) < 2 {
			return fmt.Errorf("want sender then body, got %d lines", len(lines))
		}
		sender := strings.TrimSpace(lines[0])
		body := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		_, err = eng.ProcessSMS(ctx, sender, body, receivedAt)
	case ".eml":
		if len(lines) < 3 {
			return fmt.Errorf("want sender, subject, body, got %d lines", len(lines))
		}
		sender := strings.TrimSpace(lines[0])
		subject := strings.TrimSpace(lines[1])
		body := strings.TrimSpace(lines[2])
		_, err = eng.ProcessEmail(ctx, sender, subject, body, receivedAt)
	}
	return err
}
