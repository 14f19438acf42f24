package main

import (
	"github.com/spf13/cobra"

	"github.com/agentcad/agentcad/internal/logger"
	"github.com/agentcad/agentcad/internal/mcp"
	"github.com/agentcad/agentcad/internal/state"
	"github.com/agentcad/agentcad/internal/transport"
	"github.com/agentcad/agentcad/internal/view"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the model over the Model Context Protocol on stdio",
	Long: `Mcp joins the shared viewer session and exposes it to an AI agent
over MCP on stdin/stdout: querying faces, selecting, grouping features,
and driving the camera. Logs go to stderr so the protocol stream stays
clean.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	store := state.NewStore()
	views := view.NewController(store, view.NewCamera())

	d := transport.NewDispatcher(cfg.Server.WebSocketURL, store, views,
		transport.WithLogger(logger.Log),
		transport.WithReconnectDelay(cfg.Server.ReconnectDelay),
	)
	d.Connect()
	defer d.Close()

	return mcp.NewServer(store, views).ServeStdio()
}
