package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentcad/agentcad/internal/config"
	"github.com/agentcad/agentcad/internal/logger"
	"github.com/agentcad/agentcad/version"
)

var (
	cfgPath   string
	serverURL string
	logLevel  string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agentcad",
	Short: "Client for the agent-cad model interaction backend",
	Long: `agentcad connects to an agent-cad backend to upload STEP models,
mirror the shared viewer state over WebSocket, export named features,
and expose the model to AI agents over MCP.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if serverURL != "" {
			c.Server.BaseURL = serverURL
		}
		if logLevel != "" {
			c.Logging.Level = logLevel
		}
		logger.Init(c.Logging.Level, c.Logging.LogFile)
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
