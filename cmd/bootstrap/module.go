package bootstrap

import (
	"parking-orchestrator/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule is everything a booking needs, without the HTTP surface.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	BackendModule,
	BrokerModule,
	components.PersistenceModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	RedisModule,
	JobsModule,
	components.HandlerModule,
)
