package components

import (
	"parking-orchestrator/internal/infra/db"
	"parking-orchestrator/internal/infra/readstore"
	"parking-orchestrator/internal/infra/uow"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
	NewTxBeginner,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewAttemptReadStore,
			fx.As(new(shared.AttemptReadStore)),
		),
	),
)

// Write repositories are reached through the unit of work's Tx.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewTxBeginner(pool *pgxpool.Pool) uow.TxBeginner {
	return pool
}
