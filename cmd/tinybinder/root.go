package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tinybinder",
		Short: "Bind assets and function output into HTML templates",
		Long: `tinybinder renders an HTML template by replacing {{ $name }} placeholders
with assets and {{ @name }} placeholders with the output of functions.

Functions come from fragment directories (one file per function), snippet
definition files (YAML, TOML or JSON) and optional clock helpers.

Configuration can be provided via a job file, TINYBINDER_* environment
variables or flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRenderCmd(), newSchemaCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tinybinder version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tinybinder %s (%s)\n", Version, Commit)
			return err
		},
	}
}
