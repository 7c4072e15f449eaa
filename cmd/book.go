package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parking-orchestrator/cmd/bootstrap"
	resdto "parking-orchestrator/internal/handler/dto/response"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/jwt"
	"parking-orchestrator/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type bookFlags struct {
	parking string
	user    string
	token   string
	start   string
	minutes int
	key     string
}

func newBookCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Run one booking attempt and print its outcome",
		Long: "Runs the same orchestration as POST /api/bookings. Without --token a token for --user " +
			"is signed with JWT_SECRET, so the backend must trust that secret.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBook(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.parking, "parking", "", "parking name (required)")
	cmd.Flags().StringVar(&f.user, "user", "", "requester id (required)")
	cmd.Flags().StringVar(&f.token, "token", "", "backend access token of the requester")
	cmd.Flags().StringVar(&f.start, "start", "", "slot start, RFC 3339 (default now)")
	cmd.Flags().IntVar(&f.minutes, "minutes", 0, "slot length in minutes (default BOOKING_DEFAULT_DURATION_MINUTES)")
	cmd.Flags().StringVar(&f.key, "key", "", "idempotency key (default derived from the arguments)")
	_ = cmd.MarkFlagRequired("parking")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runBook(cmd *cobra.Command, f bookFlags) error {
	requesterID, err := uuid.Parse(f.user)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	start := time.Now()
	if f.start != "" {
		if start, err = time.Parse(time.RFC3339, f.start); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}

	var (
		orchestrator commands.BookingCommands
		jwtService   *jwt.Service
		cfg          config.Config
	)
	app := fx.New(
		bootstrap.CoreModule,
		fx.Populate(&orchestrator, &jwtService, &cfg),
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

	token := f.token
	if token == "" {
		if token, err = jwtService.GenerateToken(requesterID, "authenticated"); err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
	}

	minutes := f.minutes
	if minutes <= 0 {
		minutes = cfg.Booking.DefaultDurationMinutes
	}

	ctx := jwt.WithAccessToken(cmd.Context(), token)
	result := orchestrator.AttemptBooking(ctx, commands.AttemptParams{
		ResourceID:     f.parking,
		RequesterID:    requesterID,
		Start:          start,
		End:            start.Add(time.Duration(minutes) * time.Minute),
		IdempotencyKey: f.key,
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resdto.FromBookingResult(result)); err != nil {
		return err
	}
	if !result.Succeeded() {
		return fmt.Errorf("booking %s: %s", result.Status, result.Reason)
	}
	return nil
}
