package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sb3c-go/packages/compiler/src/config"
	"sb3c-go/packages/compiler/src/logging"
)

// cli holds the flags and logger shared by every command.
type cli struct {
	verbose    bool
	configPath string
	logger     *zap.Logger
	cfg        *config.CompilerConfig
}

// newRootCmd builds the command tree. A nil logger is built from the config.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	c := &cli{logger: logger}

	rootCmd := &cobra.Command{
		Use:   "sb3c",
		Short: "sb3c - compile block-graph projects to JavaScript",
		Long: `sb3c reads a project.json document, reconstructs the nested scripts of
every target from its block graph and emits JavaScript with one function
per script and a start dispatcher per target.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			c.cfg = cfg

			if c.logger == nil {
				logger, err := logging.New(cfg.Logging)
				if err != nil {
					return err
				}
				c.logger = logger
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "sb3c.yaml", "Path to the YAML config")

	rootCmd.AddCommand(newCompileCmd(c))
	rootCmd.AddCommand(newTreeCmd(c))
	return rootCmd
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
