package main

import (
	"fmt"

	"github.com/aretw0/fsm/internal/cli"
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states <file>",
	Short: "List the states of a definition",
	Long:  `Lists every state in declared order, or with --event only the states that handle that event.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, _ := cmd.Flags().GetString("event")
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		mc, err := cli.LoadDefinition(args[0], false, logger)
		if err != nil {
			return err
		}
		for _, name := range mc.States(event) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statesCmd)
	statesCmd.Flags().StringP("event", "e", "", "Only list states with a transition for this event")
}
