package bootstrap

import (
	"time"

	"parking-orchestrator/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.JobsConfig { return cfg.Jobs },
		NewBookingLocation,
	),
)

// NewBookingLocation is the zone opening hours and "today" are evaluated in.
func NewBookingLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
