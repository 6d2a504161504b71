package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPForwarder republishes hub events to a topic exchange, routed by event type.
type AMQPForwarder struct {
	conn     *amqp091.Connection
	channel  amqpChannel
	exchange string
	logger   *logrus.Logger
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string, logger *logrus.Logger) (*AMQPForwarder, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPForwarder{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func newPublishing(event Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

// Publish sends one event to the exchange.
func (f *AMQPForwarder) Publish(ctx context.Context, event Event) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := f.channel.PublishWithContext(ctx, f.exchange, string(event.Type), false, false, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Run forwards every hub event until ctx is done or the hub closes. Publish failures are
// logged and the event is dropped.
func (f *AMQPForwarder) Run(ctx context.Context, hub *Hub) {
	events, cancel := hub.SubscribeAll()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := f.Publish(ctx, event); err != nil {
				f.logger.WithError(err).WithField("eventType", event.Type).Error("Events.AMQP.publish")
			}
		}
	}
}

func (f *AMQPForwarder) Close() error {
	if f.channel != nil {
		_ = f.channel.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
