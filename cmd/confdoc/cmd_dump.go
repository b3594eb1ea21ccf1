package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/confdoc/config"
	"github.com/dhamidi/confdoc/format"
	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

func newDumpCmd() *cobra.Command {
	var flags *config.Flags
	var dumpFormat string
	var rendered bool

	cmd := &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Dump the discovered properties in discovery or configured order",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Resolve(os.LookupEnv)
			if err != nil {
				return err
			}
			a, err := analyze(cmd.Context(), opts, args)
			if err != nil {
				return err
			}
			defer a.Close()

			if rendered {
				gen := render.NewGenerator(render.NewFormatter(render.Markdown, true), a.sink, property.NewEvaluator(a.codebase))
				return format.EncodeDocumented(dumpFormat, cmd.OutOrStdout(), gen.DocumentAll(a.records))
			}
			enc, err := format.New(dumpFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return enc.Encode(a.records)
		},
	}

	flags = config.BindFlags(cmd.Flags(), "format", "output_file", "template", "no_html")
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format (json, line)")
	cmd.Flags().BoolVar(&rendered, "rendered", false, "dump rendered descriptions instead of declarations")

	return cmd
}
