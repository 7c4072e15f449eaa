package db

import (
	"context"
	"fmt"

	"parking-orchestrator/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

type MigrateResult struct {
	Applied []string
	Pending []string
}

// Migrate brings the database to the declarative schema with the atlas CLI.
// With dryRun the planned statements are returned as Pending and nothing runs.
func Migrate(ctx context.Context, cfg config.Config, dryRun bool) (*MigrateResult, error) {
	client, err := atlasexec.NewClient(cfg.Migrate.WorkDir, cfg.Migrate.AtlasBin)
	if err != nil {
		return nil, fmt.Errorf("failed to init atlas client: %w", err)
	}

	res, err := client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:         cfg.DB.BuildDSN(),
		To:          cfg.Migrate.SchemaURL,
		DevURL:      cfg.Migrate.DevURL,
		DryRun:      dryRun,
		AutoApprove: true,
	})
	if err != nil {
		return nil, fmt.Errorf("schema apply failed: %w", err)
	}

	return &MigrateResult{
		Applied: res.Changes.Applied,
		Pending: res.Changes.Pending,
	}, nil
}
