//go:build unit

package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	sharedmock "parking-orchestrator/internal/mock/shared"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/usecase/jobs"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 14, 3, 0, 0, 0, time.UTC)

type janitorMocks struct {
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	keys     *sharedmock.MockIdempotencyRepository
	attempts *sharedmock.MockAttemptJournal
}

func newJanitorMocks(t *testing.T) janitorMocks {
	ctrl := gomock.NewController(t)
	m := janitorMocks{
		uow:      sharedmock.NewMockUnitOfWork(ctrl),
		tx:       sharedmock.NewMockTx(ctrl),
		keys:     sharedmock.NewMockIdempotencyRepository(ctrl),
		attempts: sharedmock.NewMockAttemptJournal(ctrl),
	}
	m.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.tx)
		}).AnyTimes()
	m.tx.EXPECT().Idempotency().Return(m.keys).AnyTimes()
	m.tx.EXPECT().Attempts().Return(m.attempts).AnyTimes()
	return m
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJanitor_Sweep(t *testing.T) {
	t.Run("removes expired keys and old attempts", func(t *testing.T) {
		m := newJanitorMocks(t)
		m.keys.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(4), nil)
		m.attempts.EXPECT().DeleteFinishedBefore(gomock.Any(), now.Add(-720*time.Hour)).Return(int64(2), nil)

		j := jobs.NewJanitor(m.uow, clock.NewMockClock(now), config.JobsConfig{AttemptRetention: 720 * time.Hour}, logger())
		res, err := j.Sweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.ExpiredKeys)
		assert.Equal(t, int64(2), res.PrunedAttempts)
	})

	t.Run("zero retention keeps the journal", func(t *testing.T) {
		m := newJanitorMocks(t)
		m.keys.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(0), nil)

		j := jobs.NewJanitor(m.uow, clock.NewMockClock(now), config.JobsConfig{}, logger())
		res, err := j.Sweep(context.Background())
		require.NoError(t, err)
		assert.Zero(t, res.PrunedAttempts)
	})

	t.Run("stops on key deletion failure", func(t *testing.T) {
		m := newJanitorMocks(t)
		m.keys.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(0), errors.New("connection refused"))

		j := jobs.NewJanitor(m.uow, clock.NewMockClock(now), config.JobsConfig{AttemptRetention: time.Hour}, logger())
		_, err := j.Sweep(context.Background())
		assert.ErrorContains(t, err, "delete expired idempotency keys")
	})
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	m := newJanitorMocks(t)
	j := jobs.NewJanitor(m.uow, clock.NewMockClock(now), config.JobsConfig{}, logger())

	s := jobs.NewScheduler(j, config.JobsConfig{JanitorSchedule: "every now and then"}, logger())
	assert.Error(t, s.Start())
}
