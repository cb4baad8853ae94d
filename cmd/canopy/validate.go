package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow.yaml>",
	Short: "Check the flow for structural errors",
	Long:  `Builds the actor tree and reports every handler restriction, ordering or reference problem found.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd, args[0])
		if err != nil {
			return fmt.Errorf("failed to init engine: %w", err)
		}
		if err := eng.Validate(cmd.Context()); err != nil {
			return fmt.Errorf("validation failed:\n%w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Flow is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
