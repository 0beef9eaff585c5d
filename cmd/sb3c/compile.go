package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sb3c-go/packages/compiler/src/codegen"
	"sb3c-go/packages/compiler/src/config"
	"sb3c-go/packages/compiler/src/graph"
)

func newCompileCmd(c *cli) *cobra.Command {
	var (
		out   string
		scope string
	)

	cmd := &cobra.Command{
		Use:   "compile [project.json]",
		Short: "Compile a project to JavaScript",
		Long: `Compiles every target of the project and writes the generated source to the
output path ("-" writes to stdout). Nothing is written when any script uses
an unsupported operation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" {
				c.cfg.Output = out
			}
			if scope != "" {
				c.cfg.Names.Scope = config.RegistryScope(scope)
				if err := c.cfg.Validate(); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
			}
			return runCompile(c, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path (default from config)")
	cmd.Flags().StringVar(&scope, "scope", "", "Identifier registry scope: program or target")
	return cmd
}

func runCompile(c *cli, projectPath string, cmd *cobra.Command) error {
	program, err := graph.Load(projectPath)
	if err != nil {
		return err
	}

	source, err := codegen.NewGenerator(c.cfg, c.logger).Emit(program)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	if c.cfg.Output == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), source)
		return err
	}

	if dir := filepath.Dir(c.cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(c.cfg.Output, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	c.logger.Info("wrote output",
		zap.String("project", projectPath),
		zap.String("output", c.cfg.Output),
		zap.Int("bytes", len(source)))
	return nil
}
