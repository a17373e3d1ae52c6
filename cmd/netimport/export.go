package main

import (
	"fmt"

	"indoor-network/internal/mapping"
	"indoor-network/internal/models"
	"indoor-network/internal/services"

	"github.com/spf13/cobra"
)

func newExportCmd(g *globalOptions) *cobra.Command {
	var req services.ExportRequest
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the published network of a site to EXPORT_RESULT_DIR",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch mapping.Format(format) {
			case mapping.FormatShapefile, mapping.FormatGeoJSON:
				req.Format = mapping.Format(format)
				return nil
			}
			return fmt.Errorf("invalid --format %q: want shapefile or geojson", format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, g)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			res := e.app.Exporter.Export(ctx, req)
			return printResult(cmd.OutOrStdout(), res, res.Status == models.StatusSuccess)
		},
	}

	cmd.Flags().StringVar(&req.DisplayName, "displayname", "", "Site display name (required)")
	cmd.Flags().StringVar(&req.Category, "category", mapping.CategoryFull, "Field category: full, pedestrian or indoor")
	cmd.Flags().StringVar(&format, "format", string(mapping.FormatShapefile), "Output format: shapefile or geojson")
	cmd.Flags().BoolVar(&req.OpenData, "open-data", false, "Only export rows with restricted = 'N'")
	_ = cmd.MarkFlagRequired("displayname")

	return cmd
}
