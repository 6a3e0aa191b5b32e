package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
	"github.com/ndquangr/moneymind/internal/common"
)

func pendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Review detected transactions awaiting confirmation",
	}
	cmd.AddCommand(pendingListCmd())
	cmd.AddCommand(pendingSaveCmd())
	cmd.AddCommand(pendingRecatCmd())
	cmd.AddCommand(pendingSkipCmd())
	return cmd
}

func pendingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the review queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			pending, err := eng.ListPending(cmd.Context())
			if err != nil {
				return err
			}

			if len(pending) == 0 {
				fmt.Println(cli.FormatInfo("Nothing pending."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Pending transactions (%d)", len(pending))))
			for i := range pending {
				fmt.Println("  " + cli.FormatPendingLine(&pending[i]))
			}
			return nil
		},
	}
}

func pendingSaveCmd() *cobra.Command {
	var categoryName string

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Confirm a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if categoryName != "" {
				err = eng.SaveWithCategory(cmd.Context(), args[0], categoryName)
			} else {
				err = eng.Save(cmd.Context(), args[0])
			}
			if err != nil {
				return resolveError(err, args[0])
			}

			fmt.Println(cli.FormatSuccess("Saved."))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryName, "category", "c", "", "save with a replacement category")
	return cmd
}

func pendingRecatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recat <id> <category>",
		Short: "Change the category of a pending transaction without resolving it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.ChangeCategory(cmd.Context(), args[0], args[1]); err != nil {
				return resolveError(err, args[0])
			}

			fmt.Println(cli.FormatSuccess("Category updated; still pending."))
			return nil
		},
	}
}

func pendingSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <id>",
		Short: "Discard a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.Skip(cmd.Context(), args[0]); err != nil {
				return resolveError(err, args[0])
			}

			fmt.Println(cli.FormatSuccess("Skipped. The message will not be detected again."))
			return nil
		},
	}
}

// resolveError translates engine errors into user-facing messages.
func resolveError(err error, id string) error {
	if errors.Is(err, common.ErrAlreadyResolved) {
		return fmt.Errorf("no pending transaction %s; it may already be resolved", id)
	}
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return errors.New(userErr.UserMessage)
	}
	return err
}
