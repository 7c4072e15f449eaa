package bootstrap

import (
	"log/slog"
	"net/http"

	"parking-orchestrator/internal/infra/backend"
	"parking-orchestrator/internal/infra/broker"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/usecase/shared"

	"go.uber.org/fx"
)

var BackendModule = fx.Module("backend",
	fx.Provide(
		NewBackendClient,
		func(c *backend.Client) shared.ParkingGateway { return c },
		func(c *backend.Client) shared.ReservationGateway { return c },
		func(c *backend.Client) shared.AccountGateway { return c },
		func(c *backend.Client) shared.RevenueGateway { return c },
	),
)

func NewBackendClient(cfg config.Config, logger *slog.Logger) (*backend.Client, error) {
	return backend.NewClient(cfg.Backend, &http.Client{}, logger.With("component", "backend"))
}

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewReconciliationPublisher,
	),
)

// NewReconciliationPublisher logs events instead of publishing them when no broker is configured.
func NewReconciliationPublisher(cfg config.Config, logger *slog.Logger) shared.ReconciliationPublisher {
	if cfg.Broker.URL == "" {
		logger.Warn("RABBITMQ_URL not set, reconciliation events will only be logged")
		return broker.NewLogPublisher(logger)
	}
	return broker.NewPublisher(cfg.Broker, logger.With("component", "broker"))
}
