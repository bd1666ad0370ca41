package main

import (
	"fmt"

	"github.com/aretw0/fsm/internal/cli"
	"github.com/aretw0/fsm/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the state diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the definition. With --session the stored history and active state are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		mc, err := cli.LoadDefinition(args[0], false, logger)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			persistence, err := cli.OpenStore(storeOptions(cmd))
			if err != nil {
				return err
			}
			defer persistence.Close()

			snap, err := persistence.Store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", sessionID, err)
			}
			overlay = graph.OverlayFrom(snap)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(mc.Config(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the history of this stored session")
	addStoreFlags(graphCmd)
}
