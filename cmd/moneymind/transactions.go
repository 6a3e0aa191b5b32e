package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/service"
)

func transactionsCmd() *cobra.Command {
	var source, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List saved transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.TransactionFilter{
				Source: model.SourceChannel(source),
				Limit:  limit,
			}
			if from != "" {
				t, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				filter.StartDate = &t
			}
			if to != "" {
				t, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				filter.EndDate = &t
			}

			txns, err := eng.Transactions(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println(cli.FormatInfo("No transactions found."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Transactions (%d)", len(txns))))
			for i := range txns {
				fmt.Println("  " + cli.FormatTransactionLine(&txns[i]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "filter by source (sms, email-bank, email-wallet, chat, import)")
	cmd.Flags().StringVar(&from, "from", "", "start date (2006-01-02)")
	cmd.Flags().StringVar(&to, "to", "", "end date (2006-01-02)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")
	return cmd
}
