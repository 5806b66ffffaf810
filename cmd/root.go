package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/aqlanhadi/mpx/config"
	"github.com/aqlanhadi/mpx/extractor"
	"github.com/aqlanhadi/mpx/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "mpx [file]",
		Short: "Converts Mercado Pago account statements into spreadsheets",
		Long: `mpx extracts the account details and movements of a Mercado Pago account
statement PDF and writes them to an xlsx workbook: debits, credits, account
info and summary statistics on separate sheets.

The file may be a local path or a gs://bucket/object URI.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: usage: %s", extractor.ErrMissingInput, cmd.UseLine())
			}
			return runExtract(cmd.Context(), args[0])
		},
	}
)

// exitCode maps an error kind to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, extractor.ErrMissingInput):
		return 2
	case errors.Is(err, extractor.ErrSourceRead):
		return 3
	case errors.Is(err, extractor.ErrNoTransactions):
		return 4
	case errors.Is(err, extractor.ErrOutputWrite):
		return 5
	default:
		return 1
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("mpx failed")
		os.Exit(exitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.mpx.yaml, then ~/.mpx.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	addExtractFlags(rootCmd)
}

func initLogging() {
	log.Logger = logger.New(verbose)
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}
