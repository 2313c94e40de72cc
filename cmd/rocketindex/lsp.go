package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/lspsrv"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Serve the language server backend over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return lspsrv.New().Run(context.Background())
	},
}
