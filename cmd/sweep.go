package main

import (
	"context"
	"fmt"

	"parking-orchestrator/cmd/bootstrap"
	"parking-orchestrator/internal/usecase/jobs"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the janitor once: drop expired idempotency keys and old attempts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var janitor *jobs.Janitor
			app := fx.New(
				bootstrap.CoreModule,
				bootstrap.JobsModule,
				fx.Populate(&janitor),
				fx.NopLogger,
			)
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = app.Stop(stopCtx)
			}()

			res, err := janitor.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired keys: %d, pruned attempts: %d\n", res.ExpiredKeys, res.PrunedAttempts)
			return nil
		},
	}
}
