package main

import (
	"github.com/aretw0/fsm/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Start the HTTP server",
	Long:  `Serves sessions of the definition as a JSON API, with Mermaid graphs, SSE diffs and Prometheus metrics.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		watch, _ := cmd.Flags().GetBool("watch")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		defer sigCtx.LogInterrupt(logger)

		return cli.Serve(sigCtx, cli.ServeOptions{
			File:  args[0],
			Addr:  addr,
			Watch: watch,
			Store: storeOptions(cmd),
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the definition when its file changes")
	addStoreFlags(serveCmd)
}
