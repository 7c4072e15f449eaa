package components

import (
	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/usecase"
	"parking-orchestrator/internal/usecase/commands"
	"parking-orchestrator/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewHourlyPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	func(cfg config.Config) loyalty.PointsPolicy {
		return loyalty.NewPointsPolicy(cfg.Loyalty.PointsPerUnit)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationSubmitter,
		commands.NewCapacityUpdater,
		commands.NewLoyaltyUpdater,
		commands.NewBookingOrchestrator,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewParkingQueries,
		queries.NewReservationQueries,
		queries.NewLoyaltyQueries,
		queries.NewDashboardQueries,
		queries.NewAttemptQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
