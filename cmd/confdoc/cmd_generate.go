package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/confdoc/config"
	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

func newGenerateCmd() *cobra.Command {
	var flags *config.Flags
	var werror bool

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Render the documentation table of every configuration property",
		Long: `Scan Java sources for @ConfigurationProperties classes and @Value
injection points and render their properties as an HTML or Markdown table.

Paths may be directories, .java files or source jars. Without paths the
project in the working directory is detected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Resolve(os.LookupEnv)
			if err != nil {
				return err
			}
			warnings, err := opts.Validate()
			for _, w := range warnings {
				log.Warning(w)
			}
			if err != nil {
				return err
			}
			return runGenerate(cmd, opts, args, werror)
		},
	}

	flags = config.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&werror, "werror", false, "exit with an error when warnings were reported")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *config.Options, paths []string, werror bool) error {
	a, err := analyze(cmd.Context(), opts, paths)
	if err != nil {
		return err
	}
	defer a.Close()

	gen := render.NewGenerator(opts.Formatter(), a.sink, property.NewEvaluator(a.codebase))
	docs := gen.DocumentAll(a.records)

	var tpl *render.Template
	if opts.Template != "" {
		tpl, err = render.LoadTemplate(opts.Template)
	} else {
		tpl, err = render.BuiltinTemplate(opts.Format)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, gen.Formatter(), docs); err != nil {
		return err
	}

	if out := opts.OutputPath(); out == config.Stdout {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write documentation: %w", err)
		}
	} else {
		log.Debugf("writing documentation to %s", out)
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write documentation: %w", err)
		}
		log.Noticef("documented %d properties in %s", len(docs), out)
	}

	if n := a.sink.Count(diagnostic.Warning); werror && n > 0 {
		return fmt.Errorf("%d warnings treated as errors", n)
	}
	return nil
}
