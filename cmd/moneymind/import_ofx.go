package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ndquangr/moneymind/internal/cli"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/ofx"
	"github.com/ndquangr/moneymind/internal/service"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Imported rows go straight to the transaction store; the statement id is
fingerprinted so re-importing the same file is a no-op.

Examples:
  moneymind import-ofx ~/Downloads/statement_jan.qfx
  moneymind import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	homeCurrency := viper.GetString("home_currency")
	if homeCurrency == "" {
		homeCurrency = "VND"
	}
	parser := ofx.NewParser(homeCurrency)
	ctx := cmd.Context()

	var transactions []model.Transaction
	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}
		transactions = append(transactions, parsed...)
	}

	if len(transactions) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	if dryRun {
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Would import %d transactions", len(transactions))))
		for i := range transactions {
			fmt.Println("  " + cli.FormatTransactionLine(&transactions[i]))
		}
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	imported, duplicates, err := persistImported(ctx, store, transactions)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d duplicates skipped).",
		imported, duplicates)))
	return nil
}

// persistImported saves statement rows with fingerprint dedup, so repeated
// imports of overlapping statements stay idempotent.
func persistImported(ctx context.Context, store service.Storage, transactions []model.Transaction) (imported, duplicates int, err error) {
	userID := viper.GetString("user_id")
	if userID == "" {
		userID = "default"
	}

	bar := progressbar.NewOptions(len(transactions),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for i := range transactions {
		txn := &transactions[i]

		seen, err := store.IsFingerprintSeen(ctx, txn.MessageID)
		if err != nil {
			return imported, duplicates, fmt.Errorf("dedup check failed: %w", err)
		}
		if seen {
			duplicates++
			_ = bar.Add(1)
			continue
		}

		if _, err := store.PersistTransaction(ctx, userID, txn); err != nil {
			return imported, duplicates, fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := store.MarkFingerprintSeen(ctx, txn.MessageID); err != nil {
			return imported, duplicates, fmt.Errorf("failed to mark fingerprint: %w", err)
		}

		imported++
		_ = bar.Add(1)
	}

	return imported, duplicates, nil
}
