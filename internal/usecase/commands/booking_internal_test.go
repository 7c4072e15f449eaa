//go:build unit

package commands

import (
	"testing"
	"time"

	"parking-orchestrator/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureStatus_IsAlwaysTerminal(t *testing.T) {
	a, err := booking.NewAttempt("key-1", "Central", uuid.New(), time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, booking.StateRejected, failureStatus(a), "evaluating")

	require.NoError(t, a.BeginSubmitting())
	assert.Equal(t, booking.StateRejected, failureStatus(a), "submitting")

	require.NoError(t, a.MarkReserved(7, booking.Succeeded(1, "created")))
	assert.Equal(t, booking.StatePartiallyReconciled, failureStatus(a), "reserved")

	require.NoError(t, a.BeginReconciling())
	status := failureStatus(a)
	assert.Equal(t, booking.StatePartiallyReconciled, status, "reconciling")
	assert.True(t, status.IsTerminal())
	assert.True(t, status.Succeeded())
}
