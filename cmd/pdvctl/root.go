package main

import (
	"fmt"

	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/pdv/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds global flags and the lazily loaded configuration
type rootOptions struct {
	LogLevel string

	cfg *config.Config
	log *zap.Logger
}

// config loads the configuration on first use so that commands which never
// touch the database also run without one configured.
func (o *rootOptions) config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "pdvctl",
		Short:         "PDV backend administration",
		Long:          "Administrative tasks for the PDV backend: database migrations and user bootstrap.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.log = logger.New(logger.Config{
				Level:  opts.LogLevel,
				Format: "console",
				Output: "stderr",
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newUserCommand(opts))

	return cmd
}
