package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/confdoc/diagnostic"
)

const version = "0.1.0"

var log = commonlog.GetLogger("confdoc")

func main() {
	var verbose int
	var logFile string

	rootCmd := &cobra.Command{
		Use:           "confdoc",
		Short:         "Document the configuration properties of Spring Boot sources",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbose, path)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newOptionsCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newProjectCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var fatal *diagnostic.FatalError
		if errors.As(err, &fatal) {
			// already reported with its source line
			fmt.Fprintln(os.Stderr, "confdoc: fatal configuration error, no documentation written")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
