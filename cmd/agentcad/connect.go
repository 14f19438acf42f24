package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentcad/agentcad/internal/logger"
	"github.com/agentcad/agentcad/internal/state"
	"github.com/agentcad/agentcad/internal/transport"
	"github.com/agentcad/agentcad/internal/view"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the backend and join the shared viewer session",
	Long: `Connect opens a WebSocket session to the backend and mirrors the
shared viewer state: model updates, selection and display commands.
Lines typed on stdin are sent as chat messages to the AI agent.`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	store := state.NewStore()
	views := view.NewController(store, view.NewCamera())

	store.Subscribe(func(ev state.Event) {
		switch ev.Kind {
		case state.EventModelLoaded:
			if store.HasModel() {
				info := store.Info()
				fmt.Printf("* model loaded: %s (%d faces)\n", store.Filename(), info.NumFaces)
			}
		case state.EventSelectionChanged:
			fmt.Printf("* selection: %v\n", store.Selection())
		}
	})

	d := transport.NewDispatcher(cfg.Server.WebSocketURL, store, views,
		transport.WithLogger(logger.Log),
		transport.WithReconnectDelay(cfg.Server.ReconnectDelay),
		transport.WithScreenshotHandler(func() {
			logger.Log.Info("screenshot requested, no renderer attached")
		}),
	)
	d.OnMessage(func(entry transport.LogEntry) {
		fmt.Printf("[%s] %s\n", entry.Role, entry.Content)
	})
	d.Connect()
	defer d.Close()

	fmt.Printf("connecting to %s (type a message, Ctrl-D to quit)\n", cfg.Server.WebSocketURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-sig:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := d.SendChat(line); err != nil {
				fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
			}
		}
	}
}
