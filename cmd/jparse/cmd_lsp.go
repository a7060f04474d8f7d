package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/javaparse/java/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lsp.NewServer(a.cfg, version).RunStdio()
		},
	}
}
