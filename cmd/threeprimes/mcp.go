package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/threeprimes/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes mod_exp, test_primality and find_triple as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts cli.MCPOptions
		opts.Transport, _ = cmd.Flags().GetString("transport")
		opts.Addr, _ = cmd.Flags().GetString("addr")
		opts.BaseURL, _ = cmd.Flags().GetString("base-url")

		// JSON-RPC owns stdout.
		log.SetOutput(os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.ServeMCP(ctx, cfg, opts, logger)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL advertised to SSE clients")
}
