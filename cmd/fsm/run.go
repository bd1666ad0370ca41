package main

import (
	"os"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/internal/cli"
	"github.com/aretw0/fsm/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Step through a definition interactively",
	Long:  `Starts a REPL over the definition. Type 'help' for commands. With --session the history is persisted and resumed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		strict, _ := cmd.Flags().GetBool("strict")

		opts := cli.RunOptions{
			File:      args[0],
			SessionID: sessionID,
			Fresh:     fresh,
			Strict:    strict,
			Store:     storeOptions(cmd),
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		defer sigCtx.LogInterrupt(logger)

		in := cmd.InOrStdin()
		prompt := in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd()))
		if prompt {
			tui.PrintBanner(cmd.OutOrStdout(), fsm.Version)
		}
		return cli.RunSession(sigCtx, opts, in, cmd.OutOrStdout(), prompt, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Persist and resume this session ID")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("strict", false, "Reject definitions with undefined states")
	addStoreFlags(runCmd)
}
