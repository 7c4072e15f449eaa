package components

import (
	"parking-orchestrator/internal/handler"
	"parking-orchestrator/internal/handler/api"
	"parking-orchestrator/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewParkingHandler,
		api.NewReservationHandler,
		api.NewLoyaltyHandler,
		api.NewDashboardHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
