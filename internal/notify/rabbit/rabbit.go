// Package rabbit carries notification tasks over RabbitMQ. Retries are
// published to a delayed-message exchange with an x-delay header.
package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Broker struct {
	log      *slog.Logger
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

func Dial(log *slog.Logger, url, exchange, queue string) (*Broker, error) {
	const op = "notify.rabbit.Dial"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to open channel: %w", op, err)
	}

	b := &Broker{
		log:      log.With(slog.String("component", "notify/rabbit")),
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
	}

	if err = b.declare(); err != nil {
		b.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.log.Info("rabbitmq initialized", slog.String("exchange", exchange), slog.String("queue", queue))

	return b, nil
}

func (b *Broker) declare() error {
	args := amqp.Table{"x-delayed-type": "direct"}
	if err := b.channel.ExchangeDeclare(b.exchange, "x-delayed-message", true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := b.channel.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := b.channel.QueueBind(b.queue, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

func (b *Broker) Enqueue(ctx context.Context, t notify.Task) error {
	return b.publish(ctx, t, 0)
}

func (b *Broker) publish(ctx context.Context, t notify.Task, delay time.Duration) error {
	const op = "notify.rabbit.publish"

	msg, err := Message(t, delay)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = b.channel.PublishWithContext(ctx, b.exchange, "", false, false, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Message encodes t as a persistent JSON publishing delayed by delay.
func Message(t notify.Task, delay time.Duration) (amqp.Publishing, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return amqp.Publishing{}, err
	}

	headers := amqp.Table{}
	if delay > 0 {
		headers["x-delay"] = int32(delay / time.Millisecond)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    t.ID,
		Timestamp:    time.Now(),
		Headers:      headers,
		Body:         body,
	}, nil
}

// Consume dispatches queued tasks until ctx is done. Failed deliveries are
// republished with the dispatcher's delay; malformed messages are dropped.
func (b *Broker) Consume(ctx context.Context, d *notify.Dispatcher) error {
	const op = "notify.rabbit.Consume"

	msgs, err := b.channel.Consume(b.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b.log.Info("started consuming", slog.String("queue", b.queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			b.handle(ctx, d, m)
		}
	}
}

func (b *Broker) handle(ctx context.Context, d *notify.Dispatcher, m amqp.Delivery) {
	var t notify.Task
	if err := json.Unmarshal(m.Body, &t); err != nil {
		b.log.Error("dropping malformed task", sl.Err(err))
		_ = m.Nack(false, false)
		return
	}

	for _, retry := range d.Dispatch(ctx, t) {
		if err := b.publish(ctx, retry, d.Delay(retry)); err != nil {
			b.log.Error("failed to schedule retry", slog.String("task_id", retry.ID), sl.Err(err))
		}
	}

	_ = m.Ack(false)
}

func (b *Broker) Close() {
	if b.channel != nil {
		_ = b.channel.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
	b.log.Info("rabbitmq connection closed")
}
