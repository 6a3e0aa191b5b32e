package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
)

func chatCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a chat message to the assistant",
		Long: `Send a chat message. Messages that express a transaction, like
"spent 50,000 VND on lunch", are detected and queued for review; anything
else gets a finance answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			text := strings.Join(args, " ")
			result, err := eng.ProcessChat(cmd.Context(), userID, text)
			if err != nil {
				return err
			}

			if result.Pending != nil {
				fmt.Println(cli.FormatSuccess("Transaction detected:"))
				fmt.Println("  " + cli.FormatPendingLine(result.Pending))
			}
			if result.Reply != "" {
				fmt.Println(cli.ChatIcon + " " + result.Reply)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default", "chat user id")
	return cmd
}
