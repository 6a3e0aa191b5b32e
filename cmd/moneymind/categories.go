package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndquangr/moneymind/internal/category"
	"github.com/ndquangr/moneymind/internal/cli"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category taxonomy",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cli.FormatTitle("Categories"))
			for _, name := range category.Names() {
				fmt.Println("  " + name)
			}
		},
	}
}
