//go:build unit

package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"parking-orchestrator/internal/infra"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDBTX implements db.DBTX
type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Rows), mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIdempotencyRepository_TryInsert(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	rec := shared.IdempotencyRecord{
		Key:         "key-1",
		RequesterID: uuid.New(),
		ResourceID:  "Central",
		RequestHash: "abc",
		CreatedAt:   now,
		ExpiresAt:   now.Add(24 * time.Hour),
	}

	tests := []struct {
		name       string
		tag        string
		dbErr      error
		wantClaim  bool
		wantErrKnd infra.RepositoryErrorKind
	}{
		{name: "fresh key", tag: "INSERT 0 1", wantClaim: true},
		{name: "existing live key", tag: "INSERT 0 0", wantClaim: false},
		{name: "database error", dbErr: assert.AnError, wantErrKnd: infra.KindDBFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbtx := new(MockDBTX)
			dbtx.On("Exec", mock.Anything, tryInsertIdempotencyKeySQL, mock.Anything).
				Return(pgconn.NewCommandTag(tt.tag), tt.dbErr)

			claimed, err := NewIdempotencyRepository(dbtx, discardLogger()).TryInsert(context.Background(), rec)

			if tt.wantErrKnd != "" {
				assert.True(t, infra.IsKind(err, tt.wantErrKnd))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantClaim, claimed)
			}
			dbtx.AssertExpectations(t)
		})
	}
}

func TestIdempotencyRepository_Get(t *testing.T) {
	t.Run("missing key is not found", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencyKeySQL, mock.Anything).Return(errRow{err: pgx.ErrNoRows})

		_, err := NewIdempotencyRepository(dbtx, discardLogger()).Get(context.Background(), "key-1", uuid.New())

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("scan failure is a db failure", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencyKeySQL, mock.Anything).Return(errRow{err: assert.AnError})

		_, err := NewIdempotencyRepository(dbtx, discardLogger()).Get(context.Background(), "key-1", uuid.New())

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.Equal(t, errs.ClassUnknown, errs.Classify(err))
	})
}

func TestIdempotencyRepository_Complete(t *testing.T) {
	now := time.Now()

	dbtx := new(MockDBTX)
	dbtx.On("Exec", mock.Anything, completeIdempotencyKeySQL, mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil).Once()
	dbtx.On("Exec", mock.Anything, completeIdempotencyKeySQL, mock.Anything).Return(pgconn.NewCommandTag("UPDATE 0"), nil).Once()
	repo := NewIdempotencyRepository(dbtx, discardLogger())

	assert.NoError(t, repo.Complete(context.Background(), "key-1", uuid.New(), 42, now))

	err := repo.Complete(context.Background(), "key-2", uuid.New(), 42, now)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	dbtx.AssertExpectations(t)
}

func TestIdempotencyRepository_ClaimStaleAndCleanup(t *testing.T) {
	now := time.Now()

	dbtx := new(MockDBTX)
	dbtx.On("Exec", mock.Anything, claimStaleIdempotencyKeySQL, mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil)
	dbtx.On("Exec", mock.Anything, releaseIdempotencyKeySQL, mock.Anything).Return(pgconn.NewCommandTag("DELETE 1"), nil)
	dbtx.On("Exec", mock.Anything, deleteExpiredIdempotencyKeysSQL, mock.Anything).Return(pgconn.NewCommandTag("DELETE 3"), nil)
	repo := NewIdempotencyRepository(dbtx, discardLogger())

	claimed, err := repo.ClaimStale(context.Background(), "key-1", uuid.New(), "abc", now.Add(-time.Minute), now)
	require.NoError(t, err)
	assert.True(t, claimed)

	assert.NoError(t, repo.Release(context.Background(), "key-1", uuid.New()))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	dbtx.AssertExpectations(t)
}
