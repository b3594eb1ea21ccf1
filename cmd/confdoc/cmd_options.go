package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/confdoc/config"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the supported " + config.Prefix + "* options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Options are read from %s, %s* environment variables, --option key=value and flags.\n\n", config.DefaultFile, config.EnvPrefix)
			for _, info := range config.Supported() {
				usage := info.Key()
				if info.Param != "" {
					usage += "=" + info.Param
				}
				fmt.Fprintf(out, "  %s\n", usage)
				fmt.Fprintf(out, "      %s\n", info.Usage)
				fmt.Fprintf(out, "      env: %s\n", info.Env())
			}
			return nil
		},
	}
}
