package main

import (
	"indoor-network/internal/models"

	"github.com/spf13/cobra"
)

func newPedestrianCmd(g *globalOptions) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "pedestrian",
		Short: "Reconcile pedestrian_route against a geodatabase snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, g)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			res := e.app.Pedestrian.SyncFromFolder(ctx, folder)
			return printResult(cmd.OutOrStdout(), res, res.Status == models.StatusSuccess)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Geodatabase path under IMPORT_BASE_PATH (required)")
	_ = cmd.MarkFlagRequired("folder")

	return cmd
}
