package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/confdoc/java/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file.java>",
		Short: "Parse a .java file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if ext := filepath.Ext(filename); ext != ".java" {
				return fmt.Errorf("unsupported file extension: %s (expected .java)", ext)
			}
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			p := parser.ParseCompilationUnit(bytes.NewReader(data), parser.WithFile(filename))
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse java file: empty input")
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				text, err := json.MarshalIndent(node, "", "  ")
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Fprintln(out, string(text))
			case "tree":
				fmt.Fprint(out, node.String())
			default:
				return fmt.Errorf("unknown format: %s (expected tree or json)", outputFormat)
			}

			errs := 0
			node.Walk(func(n *parser.Node) bool {
				if n.IsError() {
					errs++
					msg := "syntax error"
					if n.Error != nil {
						msg = n.Error.Message
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", filename, n.Span.Start.Line, n.Span.Start.Column, msg)
				}
				return true
			})
			if errs > 0 {
				return fmt.Errorf("%d syntax errors", errs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")

	return cmd
}
