package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/fsm/internal/cli"
	"github.com/aretw0/fsm/pkg/adapters/mcp"
	"github.com/aretw0/fsm/pkg/session"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp <file>",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Serves sessions of the definition as MCP tools, so AI agents can trigger events and move through history.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		mc, err := cli.LoadDefinition(args[0], true, logger)
		if err != nil {
			return err
		}
		persistence, err := cli.OpenStore(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer persistence.Close()

		mgrOpts := append(persistence.ManagerOptions(), session.WithLogger(logger))
		mgr, err := session.NewManager(mc.Config(), persistence.Store, mgrOpts...)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(mgr, logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			defer sigCtx.LogInterrupt(logger)

			addr := fmt.Sprintf(":%d", port)
			return srv.ServeSSE(sigCtx, addr, fmt.Sprintf("http://localhost:%d", port))
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
	addStoreFlags(mcpCmd)
}
