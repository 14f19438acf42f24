package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentcad/agentcad/internal/api"
	"github.com/agentcad/agentcad/pkg/cad"
)

var exportFeatures string

var exportCmd = &cobra.Command{
	Use:   "export [out.step]",
	Short: "Export the loaded model as a STEP file with named faces",
	Long: `Export asks the backend to write the currently loaded model as a
STEP file whose faces carry feature names. Pass --features to supply a
feature map (JSON, as produced by the viewer), otherwise the export
carries no names. Without an output path the server-suggested filename
is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFeatures, "features", "f", "", "JSON file with the feature map")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	req := cad.ExportRequest{Features: map[string][]cad.FeatureMember{}}
	if exportFeatures != "" {
		data, err := os.ReadFile(exportFeatures)
		if err != nil {
			return fmt.Errorf("reading feature map: %w", err)
		}
		if err := json.Unmarshal(data, &req.Features); err != nil {
			return fmt.Errorf("parsing feature map %s: %w", exportFeatures, err)
		}
	}

	client := api.NewClient(cfg.Server.BaseURL)
	data, filename, err := client.ExportSTEP(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := filename
	if len(args) > 0 {
		out = args[0]
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("exported %s (%d bytes)\n", out, len(data))
	return nil
}
