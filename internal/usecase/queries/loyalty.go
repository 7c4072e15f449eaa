package queries

import (
	"context"
	"log/slog"

	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type LoyaltyQueries interface {
	// GetOrCreate returns the caller's loyalty account, opening one for customers who have none.
	GetOrCreate(ctx context.Context, accountID uuid.UUID) (*LoyaltyView, error)
}

type loyaltyQueriesImpl struct {
	accounts shared.AccountGateway
	logger   *slog.Logger
}

func NewLoyaltyQueries(accounts shared.AccountGateway, logger *slog.Logger) LoyaltyQueries {
	return &loyaltyQueriesImpl{accounts: accounts, logger: logger}
}

func (q *loyaltyQueriesImpl) GetOrCreate(ctx context.Context, accountID uuid.UUID) (*LoyaltyView, error) {
	acc, err := q.accounts.GetAccount(ctx, accountID)
	if err == nil {
		return toLoyaltyView(acc, false), nil
	}
	if !errs.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	admin, err := q.accounts.IsAdmin(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if admin {
		return nil, errs.Mark(errs.New("administrators have no loyalty account"), ErrNoLoyaltyAccount, errs.ErrNotFound)
	}

	created, err := q.accounts.CreateAccount(ctx, accountID)
	if err != nil {
		// Another request opened it first.
		if errs.Is(err, errs.ErrConflict) {
			acc, getErr := q.accounts.GetAccount(ctx, accountID)
			if getErr != nil {
				return nil, getErr
			}
			return toLoyaltyView(acc, false), nil
		}
		return nil, err
	}

	q.logger.Info("loyalty account opened", "account_id", accountID.String())
	return toLoyaltyView(created, true), nil
}

func toLoyaltyView(acc *loyalty.Account, created bool) *LoyaltyView {
	return &LoyaltyView{
		AccountID:   acc.ID(),
		Points:      acc.Points(),
		PlateNumber: acc.PlateNumber(),
		Balance:     acc.Balance(),
		Created:     created,
	}
}
