package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sb3c-go/packages/compiler/src/graph"
	"sb3c-go/packages/compiler/src/ir"
	"sb3c-go/packages/compiler/src/unravel"
)

func newTreeCmd(c *cli) *cobra.Command {
	var targetName string

	cmd := &cobra.Command{
		Use:   "tree [project.json]",
		Short: "Print the reconstructed scripts as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := graph.Load(args[0])
			if err != nil {
				return err
			}

			found := false
			for _, target := range program.Targets {
				if targetName != "" && target.Name != targetName {
					continue
				}
				found = true

				units := unravel.Unravel(target.Blocks)
				c.logger.Debug("reconstructed target",
					zap.String("target", target.Name),
					zap.Int("units", len(units)))

				data, err := ir.DumpYAML(units)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", target.Name, data)
			}
			if targetName != "" && !found {
				return fmt.Errorf("no target named %q", targetName)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetName, "target", "t", "", "Only print this target")
	return cmd
}
