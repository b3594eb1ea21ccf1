package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/confdoc/config"
	"github.com/dhamidi/confdoc/lsp"
)

func newLSPCmd() *cobra.Command {
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Resolve(os.LookupEnv)
			if err != nil {
				return err
			}
			server := lsp.NewServer(version, opts)
			return server.RunStdio()
		},
	}

	flags = config.BindFlags(cmd.Flags(), "format", "output_file", "template", "no_html")

	return cmd
}
