package main

import (
	"fmt"

	"github.com/aretw0/fsm/internal/validator"
	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a definition for consistency",
	Long:  `Parses the definition and reports an undefined initial state, transitions to undefined states or malformed fields. States that cannot be reached from the initial state are warnings, or errors with --strict.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		cfg, err := file.LoadFile(args[0], file.WithValidation())
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := validator.ValidateGraph(cfg, strict); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, name := range validator.Crawl(cfg).Unreachable {
			fmt.Fprintf(out, "Warning: state %q is unreachable from %q\n", name, cfg.Initial)
		}
		fmt.Fprintf(out, "Definition is valid: %d states, initial %q\n", len(cfg.States), cfg.Initial)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat unreachable states as errors")
}
