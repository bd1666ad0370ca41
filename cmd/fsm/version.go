package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fsm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fsm version %s\n", strings.TrimSpace(fsm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
