package main

import (
	"fmt"

	"parking-orchestrator/internal/infra/db"
	"parking-orchestrator/internal/pkg/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply migrations/schema.sql to the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			res, err := db.Migrate(cmd.Context(), cfg, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, stmt := range res.Applied {
				fmt.Fprintln(out, "applied:", stmt)
			}
			for _, stmt := range res.Pending {
				fmt.Fprintln(out, "pending:", stmt)
			}
			if len(res.Applied) == 0 && len(res.Pending) == 0 {
				fmt.Fprintln(out, "schema is up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the planned statements without running them")
	return cmd
}
