package commands

import (
	"context"
	"log/slog"

	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/pkg/retry"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type LoyaltyOutcome struct {
	NewBalance int
	// NoOp: nothing to credit, either a zero delta or an administrator without an account.
	NoOp           bool
	Attempts       int
	AlreadyApplied bool
}

type LoyaltyUpdater struct {
	accounts shared.AccountGateway
	policy   retry.Policy
	logger   *slog.Logger
}

func NewLoyaltyUpdater(accounts shared.AccountGateway, cfg config.BookingConfig, logger *slog.Logger) *LoyaltyUpdater {
	return &LoyaltyUpdater{
		accounts: accounts,
		policy: retry.Policy{
			MaxAttempts: cfg.ReconcileMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
		logger: logger,
	}
}

// CreditPoints reads the account, adds delta and writes it back. The outcome is non-nil
// even on error.
func (u *LoyaltyUpdater) CreditPoints(ctx context.Context, accountID uuid.UUID, delta int) (*LoyaltyOutcome, error) {
	out := &LoyaltyOutcome{}
	if delta < 0 {
		return out, classify(errs.Newf("negative points credit %d", delta), ErrInvalidBooking, errs.ErrValidation)
	}
	if delta == 0 {
		out.NoOp = true
		return out, nil
	}

	baseline := -1
	attempts, err := retry.Do(ctx, u.policy, errs.IsRetryable, func(ctx context.Context, attempt int) error {
		acc, err := u.accounts.GetAccount(ctx, accountID)
		if errs.Is(err, errs.ErrNotFound) {
			admin, adminErr := u.accounts.IsAdmin(ctx, accountID)
			if adminErr != nil {
				return adminErr
			}
			if admin {
				out.NoOp = true
				return nil
			}
			return classify(err, ErrAccountNotFound, nil)
		}
		if err != nil {
			return err
		}

		// Points only grow in this workflow, so reaching baseline+delta means an earlier
		// write landed before its response was lost.
		if baseline < 0 {
			baseline = acc.Points()
		} else if acc.Points() >= baseline+delta {
			out.NewBalance = acc.Points()
			out.AlreadyApplied = true
			return nil
		}

		credited, err := acc.Credit(delta)
		if err != nil {
			return classify(err, ErrInvalidBooking, errs.ErrValidation)
		}
		updated, err := u.accounts.UpdateAccount(ctx, credited)
		if err != nil {
			return err
		}
		out.NewBalance = updated.Points()
		return nil
	})
	out.Attempts = attempts

	if err != nil {
		u.logger.Warn("loyalty credit failed",
			"account_id", accountID.String(),
			"delta", delta,
			"attempts", attempts,
			"error", err.Error())
		return out, err
	}
	return out, nil
}
