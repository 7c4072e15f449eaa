//go:build unit

package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchanges  []string
	queues     []string
	bindings   [][3]string
	published  []amqp.Publishing
	publishKey string
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.exchanges = append(f.exchanges, name+":"+kind)
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.queues = append(f.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.bindings = append(f.bindings, [3]string{name, key, exchange})
	return nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.publishKey = exchange + "/" + key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel, openErr error) *Publisher {
	return &Publisher{
		exchange:   "bookings",
		routingKey: "booking.reconciliation_required",
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		open: func() (channel, func(), error) {
			if openErr != nil {
				return nil, nil, openErr
			}
			return ch, func() {}, nil
		},
	}
}

func TestPublisher_PublishReconciliationRequired(t *testing.T) {
	ev := shared.ReconciliationEvent{
		IdempotencyKey: "key-1",
		ResourceID:     "Central",
		RequesterID:    uuid.New(),
		ReservationID:  42,
		FailedSteps:    []string{"capacity"},
		Warnings:       []string{"capacity update did not complete: boom"},
		OccurredAt:     time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	t.Run("declares topology and publishes a persistent message", func(t *testing.T) {
		ch := &fakeChannel{}
		err := newTestPublisher(ch, nil).PublishReconciliationRequired(context.Background(), ev)
		require.NoError(t, err)

		assert.Equal(t, []string{"bookings:topic"}, ch.exchanges)
		assert.Equal(t, []string{"booking.reconciliation_required"}, ch.queues)
		assert.Equal(t, [][3]string{{"booking.reconciliation_required", "booking.reconciliation_required", "bookings"}}, ch.bindings)
		assert.Equal(t, "bookings/booking.reconciliation_required", ch.publishKey)
		assert.True(t, ch.closed)

		require.Len(t, ch.published, 1)
		msg := ch.published[0]
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "application/json", msg.ContentType)
		assert.Equal(t, "key-1", msg.MessageId)

		var got shared.ReconciliationEvent
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		assert.Equal(t, ev, got)
	})

	t.Run("broker unavailable", func(t *testing.T) {
		err := newTestPublisher(nil, errors.New("dial failed")).PublishReconciliationRequired(context.Background(), ev)
		assert.Error(t, err)
	})

	t.Run("publish failure", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}
		err := newTestPublisher(ch, nil).PublishReconciliationRequired(context.Background(), ev)
		assert.ErrorContains(t, err, "publish failed")
		assert.True(t, ch.closed)
	})
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, p.PublishReconciliationRequired(context.Background(), shared.ReconciliationEvent{IdempotencyKey: "k"}))
}
