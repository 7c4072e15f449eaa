// Package broker publishes booking events to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type opener func() (channel, func(), error)

// Publisher opens a short-lived connection per event. Reconciliation events are rare,
// so there is no connection to keep healthy between them.
type Publisher struct {
	exchange   string
	routingKey string
	open       opener
	logger     *slog.Logger
}

func NewPublisher(cfg config.BrokerConfig, logger *slog.Logger) *Publisher {
	url := cfg.URL
	return &Publisher{
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
		open: func() (channel, func(), error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, nil, fmt.Errorf("dial failed: %w", err)
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				return nil, nil, fmt.Errorf("channel open failed: %w", err)
			}
			return ch, func() { _ = conn.Close() }, nil
		},
	}
}

func (p *Publisher) PublishReconciliationRequired(ctx context.Context, ev shared.ReconciliationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}

	ch, closeConn, err := p.open()
	if err != nil {
		p.logger.Warn("rabbitmq unavailable", "error", err.Error())
		return err
	}
	defer closeConn()
	defer func() { _ = ch.Close() }()

	if err := p.declare(ch); err != nil {
		p.logger.Warn("rabbitmq topology declare failed", "error", err.Error())
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.IdempotencyKey,
		Timestamp:    time.Now().UTC(),
		Type:         p.routingKey,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		p.logger.Warn("rabbitmq publish failed", "error", err.Error())
		return fmt.Errorf("publish failed: %w", err)
	}

	p.logger.Info("reconciliation event published",
		"idempotency_key", ev.IdempotencyKey,
		"reservation_id", ev.ReservationID,
		"failed_steps", ev.FailedSteps)
	return nil
}

// declare is idempotent. The queue is named after the routing key so events are kept
// even before any consumer exists.
func (p *Publisher) declare(ch channel) error {
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(p.routingKey, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(p.routingKey, p.routingKey, p.exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	return nil
}

// LogPublisher stands in when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishReconciliationRequired(_ context.Context, ev shared.ReconciliationEvent) error {
	p.logger.Warn("reconciliation required",
		"idempotency_key", ev.IdempotencyKey,
		"resource_id", ev.ResourceID,
		"requester_id", ev.RequesterID.String(),
		"reservation_id", ev.ReservationID,
		"failed_steps", ev.FailedSteps,
		"warnings", ev.Warnings)
	return nil
}
