package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/aretw0/canopy/internal/presentation/tui"
)

var treeCmd = &cobra.Command{
	Use:   "tree <flow.yaml>",
	Short: "Show the actor tree of a flow",
	Long:  `Prints the actor tree in the terminal, or as a Mermaid diagram (graph TD) with --mermaid.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		showOptions, _ := cmd.Flags().GetBool("options")

		eng, err := newEngine(cmd, args[0])
		if err != nil {
			return fmt.Errorf("failed to init engine: %w", err)
		}
		desc, err := eng.Inspect(cmd.Context())
		if err != nil {
			return err
		}

		if mermaid {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(desc, nil))
			return nil
		}
		r := tui.NewTreeRenderer()
		r.ShowOptions = showOptions
		return r.Render(cmd.OutOrStdout(), desc)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("mermaid", false, "Output a Mermaid diagram")
	treeCmd.Flags().Bool("options", false, "Show actor options")
}
