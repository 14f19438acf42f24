package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentcad/agentcad/internal/api"
	"github.com/agentcad/agentcad/internal/logger"
	"github.com/agentcad/agentcad/pkg/watcher"
)

var uploadWatch bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file.step>",
	Short: "Upload a STEP model to the backend",
	Long: `Upload sends a STEP file to the backend, which processes it and
broadcasts the resulting mesh to all connected viewers. With --watch the
file is re-uploaded whenever it changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadWatch, "watch", "w", false, "re-upload when the file changes")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	client := api.NewClient(cfg.Server.BaseURL)

	upload := func(ctx context.Context) error {
		resp, err := client.UploadModel(ctx, path)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s: %d faces\n", resp.Filename, len(resp.Faces))
		return nil
	}

	if err := upload(cmd.Context()); err != nil {
		return err
	}
	if !uploadWatch {
		return nil
	}

	w, err := watcher.New(path, 500*time.Millisecond, func(changed string) {
		if err := upload(context.Background()); err != nil {
			logger.Log.Warn("re-upload failed", zap.String("file", changed), zap.Error(err))
		}
	}, logger.Log)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Start()

	fmt.Printf("watching %s, Ctrl-C to stop\n", path)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
