// Package notify publishes application events to RabbitMQ. Publishing is
// best effort: a slow or dead broker costs the request path nothing.
package notify

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
)

const (
	EventBookingCreated      = "booking.created"
	EventBookingCancelled    = "booking.cancelled"
	EventSupportMessage      = "support.message"
	EventNewsletterSubscribe = "newsletter.subscribed"
)

type Notifier interface {
	// Notify emits an event asynchronously. It never blocks the caller
	// and never reports failure; delivery problems are logged only.
	Notify(eventType string, payload interface{})
}

type AMQPNotifier struct {
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewAMQPNotifier(conn *amqp.Connection, exchange string, logger *slog.Logger) (*AMQPNotifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return &AMQPNotifier{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (n *AMQPNotifier) Notify(eventType string, payload interface{}) {
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			n.logger.Error("failed to encode notification payload", "event", eventType, "error", err)
			return
		}

		err = n.channel.Publish(
			n.exchange,
			eventType, // routing key
			false,     // mandatory
			false,     // immediate
			amqp.Publishing{
				ContentType: "application/json",
				Timestamp:   time.Now(),
				Body:        body,
			},
		)
		if err != nil {
			n.logger.Error("failed to publish notification", "event", eventType, "error", err)
			return
		}

		n.logger.Debug("notification published", "event", eventType)
	}()
}

func (n *AMQPNotifier) Close() error {
	return n.channel.Close()
}

// NoopNotifier drops every event. Used when the broker is not configured and
// in tests.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, interface{}) {}
