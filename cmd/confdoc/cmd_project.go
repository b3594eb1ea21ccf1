package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/confdoc/project"
)

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project [dir]",
		Short: "Show the detected source directories and classpath",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			proj, err := project.Detect(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Root:   %s\n", proj.RootDir)
			fmt.Fprintf(out, "Layout: %s\n", proj.Layout)
			fmt.Fprintf(out, "\nModules:\n")
			for _, m := range proj.Modules {
				name := m.Name
				if name == "" {
					name = "(root)"
				}
				fmt.Fprintf(out, "  %s\n", name)
				fmt.Fprintf(out, "    src:     %s\n", m.SrcDir)
				if m.ClassDir != "" {
					fmt.Fprintf(out, "    classes: %s\n", m.ClassDir)
				}
			}
			if len(proj.LibJars) > 0 {
				fmt.Fprintf(out, "\nLibs:\n")
				for _, jar := range proj.LibJars {
					fmt.Fprintf(out, "  %s\n", jar)
				}
			}
			if len(proj.DependencyJars) > 0 {
				fmt.Fprintf(out, "\nDependencies:\n")
				for _, jar := range proj.DependencyJars {
					fmt.Fprintf(out, "  %s\n", jar)
				}
			}
			return nil
		},
	}
}
