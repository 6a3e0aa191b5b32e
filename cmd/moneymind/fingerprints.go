package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/cli"
)

func fingerprintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprints",
		Short: "Inspect the message dedup store",
	}
	cmd.AddCommand(fingerprintsListCmd())
	cmd.AddCommand(fingerprintsClearCmd())
	return cmd
}

func fingerprintsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored message fingerprints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fingerprints, err := eng.Fingerprints(cmd.Context())
			if err != nil {
				return err
			}

			if len(fingerprints) == 0 {
				fmt.Println(cli.FormatInfo("No fingerprints stored."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Fingerprints (%d)", len(fingerprints))))
			for _, fp := range fingerprints {
				fmt.Println("  " + fp)
			}
			return nil
		},
	}
}

func fingerprintsClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the dedup store",
		Long: `Empty the dedup store. Previously processed messages will be
detected again the next time they are seen.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				fmt.Print(cli.FormatWarning("This re-enables detection for every past message. Continue? [y/N] "))
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
					fmt.Println("Aborted.")
					return nil
				}
			}

			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.ClearFingerprints(cmd.Context()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Fingerprint store cleared."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
