package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
	"github.com/ndquangr/moneymind/internal/engine"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run a message through the detection pipeline",
	}
	cmd.AddCommand(detectSMSCmd())
	cmd.AddCommand(detectEmailCmd())
	return cmd
}

func detectSMSCmd() *cobra.Command {
	var sender, body, receivedAt string

	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Detect a transaction in a bank SMS",
		Long: `Detect a transaction in a bank SMS. The body comes from --body or,
when omitted, from stdin.

Examples:
  moneymind detect sms --sender Vietcombank --body "GD: -150,000 VND tai GRAB ..."
  cat message.txt | moneymind detect sms --sender Vietcombank`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			text, err := messageBody(body)
			if err != nil {
				return err
			}

			ts, err := parseReceivedAt(receivedAt)
			if err != nil {
				return err
			}

			result, err := eng.ProcessSMS(cmd.Context(), sender, text, ts)
			if err != nil {
				return err
			}
			printDetectResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "SMS sender id, for example Vietcombank")
	cmd.Flags().StringVar(&body, "body", "", "message body (default: read stdin)")
	cmd.Flags().StringVar(&receivedAt, "received-at", "", "delivery timestamp (default: now)")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func detectEmailCmd() *cobra.Command {
	var sender, subject, body, receivedAt string

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Detect a transaction in a bank or e-wallet email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			text, err := messageBody(body)
			if err != nil {
				return err
			}

			ts, err := parseReceivedAt(receivedAt)
			if err != nil {
				return err
			}

			result, err := eng.ProcessEmail(cmd.Context(), sender, subject, text, ts)
			if err != nil {
				return err
			}
			printDetectResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "sender address, for example noreply@vietcombank.com.vn")
	cmd.Flags().StringVar(&subject, "subject", "", "email subject")
	cmd.Flags().StringVar(&body, "body", "", "email body (default: read stdin)")
	cmd.Flags().StringVar(&receivedAt, "received-at", "", "delivery timestamp (default: now)")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

// messageBody returns the flag value, or stdin when the flag is empty.
func messageBody(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("empty message body")
	}
	return text, nil
}

func printDetectResult(result *engine.DetectResult) {
	switch {
	case result.Duplicate:
		fmt.Println(cli.FormatWarning("Already seen this message; nothing queued."))
	case result.Pending != nil:
		fmt.Println(cli.RenderBox("Transaction detected",
			cli.FormatPendingLine(result.Pending)+"\n"+
				cli.SubtleStyle.Render(
					fmt.Sprintf("Run 'moneymind pending save %s' to confirm, or 'pending skip' to discard.", result.Pending.ID))))
	default:
		fmt.Println(cli.FormatInfo("No transaction detected."))
	}
}
