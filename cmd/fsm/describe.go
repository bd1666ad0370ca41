package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fsm/internal/presentation/tui"
	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Summarize a definition as Markdown",
	Long:  `Prints each state with its transitions and extra fields. The Markdown is styled when stdout is a terminal, unless --raw is set.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		cfg, err := file.LoadFile(args[0])
		if err != nil {
			return err
		}
		base := filepath.Base(args[0])
		md := tui.Describe(strings.TrimSuffix(base, filepath.Ext(base)), cfg)

		out := cmd.OutOrStdout()
		if !raw && out == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
			rendered, err := tui.NewRenderer()(md)
			if err != nil {
				return fmt.Errorf("failed to render: %w", err)
			}
			md = rendered
		}
		_, err = fmt.Fprint(out, md)
		return err
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("raw", false, "Print plain Markdown even on a terminal")
}
