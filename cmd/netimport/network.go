package main

import (
	"path/filepath"

	"indoor-network/internal/models"

	"github.com/spf13/cobra"
)

func newNetworkCmd(g *globalOptions) *cobra.Command {
	var displayName, folder, dir string

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Import the 3D indoor network shapefile of a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, g)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			var res *models.ImportResult
			if dir != "" {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return err
				}
				res = e.app.Importer.Import(ctx, displayName, abs)
			} else {
				res = e.app.Importer.ImportFromFolder(ctx, displayName, folder)
			}
			return printResult(cmd.OutOrStdout(), res, res.Status == models.StatusSuccess)
		},
	}

	cmd.Flags().StringVar(&displayName, "displayname", "", "Site display name (required)")
	cmd.Flags().StringVar(&folder, "folder", "", "Folder under IMPORT_BASE_PATH holding the shapefile")
	cmd.Flags().StringVar(&dir, "dir", "", "Local directory holding the shapefile; bypasses IMPORT_BASE_PATH")
	_ = cmd.MarkFlagRequired("displayname")
	cmd.MarkFlagsOneRequired("folder", "dir")
	cmd.MarkFlagsMutuallyExclusive("folder", "dir")

	return cmd
}
