package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/bincount/internal/config"
	"github.com/tensorplex-labs/bincount/internal/utils/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	// subcommands log their own failures
	if err := newRootCmd(cfg).Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newRootCmd(cfg *config.AppConfig) *cobra.Command {
	var debug, trace bool

	root := &cobra.Command{
		Use:           "bincheck",
		Short:         "Check that the bincount implementations agree exactly",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(
				logger.WithEnvironment(cfg.Environment),
				logger.WithDebug(debug),
				logger.WithTrace(trace),
				logger.WithOutput(cmd.ErrOrStderr()),
			)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "sets log level to debug")
	root.PersistentFlags().BoolVar(&trace, "trace", false, "sets log level to trace")

	root.AddCommand(newCheckCmd(cfg), newBenchCmd(cfg))
	return root
}
