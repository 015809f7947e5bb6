// Package cli implements the negkw command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	debug      bool
}

// loadConfig reads the config file if present. A missing file yields defaults.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// logger writes to stderr so stdout stays clean for command output.
func (o *globalOptions) logger(cfg *config.Config) (infralogger.Logger, error) {
	level := "warn"
	if cfg.Debug {
		level = cfg.Logging.Level
	}
	return infralogger.New(infralogger.Config{
		Level:       level,
		Development: cfg.Debug,
		OutputPaths: []string{"stderr"},
	})
}

// NewRootCommand builds the negkw command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "negkw",
		Short:         "Find negative keyword candidates in search-term reports",
		Long:          `Score every search term in a report against an advertiser profile and flag low-relevance terms as negative keyword candidates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newScoreCommand(opts),
		newInspectCommand(),
		newServeCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	// Environment from .env is optional.
	_ = godotenv.Load()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return fmt.Errorf("negkw: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "negkw version %s\n", bootstrap.Version)
		},
	}
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Start(cmd.Context(), opts.configPath)
		},
	}
}
