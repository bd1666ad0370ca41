package main

import (
	"fmt"
	"os"

	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/aretw0/fsm/pkg/schema"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a definition in canonical YAML",
	Long:  `Re-encodes the definition as YAML in declared state order with sorted events. Prints to stdout unless --write is set.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")

		cfg, err := file.LoadFile(args[0])
		if err != nil {
			return err
		}
		out, err := schema.Encode(cfg)
		if err != nil {
			return err
		}

		if !write {
			_, err := cmd.OutOrStdout().Write(out)
			return err
		}

		perm := os.FileMode(0644)
		if info, err := os.Stat(args[0]); err == nil {
			perm = info.Mode().Perm()
		}
		if err := renameio.WriteFile(args[0], out, perm); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolP("write", "w", false, "Write the result back to the file")
}
