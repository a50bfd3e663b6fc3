// Package service holds side effects that sit beside the request path.
// Publishing is best effort: callers log a failure and carry on.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/fitness-tracker/internal/queue"
)

// Publisher emits activity events.
type Publisher interface {
	PublishWorkoutLogged(ctx context.Context, ev queue.WorkoutLoggedEvent) error
}

// NewPublisher returns an AMQP publisher for url, or a no-op publisher when
// url is empty.
func NewPublisher(url string, log *zap.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{url: url, log: log}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishWorkoutLogged(context.Context, queue.WorkoutLoggedEvent) error { return nil }

// AMQPPublisher opens a short-lived connection per event.  Messages are
// persistent and routed to the durable workout.logged queue.
type AMQPPublisher struct {
	url string
	log *zap.Logger
}

func (p *AMQPPublisher) PublishWorkoutLogged(ctx context.Context, ev queue.WorkoutLoggedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publish(ctx, queue.WorkoutLoggedQueue, body)
}

func (p *AMQPPublisher) publish(ctx context.Context, queueName string, body []byte) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.log.Debug("event published", zap.String("queue", queueName), zap.Int("bytes", len(body)))
	return nil
}
