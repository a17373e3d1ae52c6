package main

import (
	"fmt"

	"indoor-network/internal/database"

	"github.com/spf13/cobra"
)

func newSchemaCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing published, cross-reference, pedestrian and history tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, g)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			if err := database.EnsureSchema(ctx, e.db, e.app.PedestrianMapping); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
