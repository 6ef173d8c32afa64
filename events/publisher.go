// Package events publishes review lifecycle events to RabbitMQ. Publishing is
// best-effort: a broker failure is logged and never fails the HTTP request
// that triggered it.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"

	"github.com/dealerhub/dealership-backend/models"
)

// Publisher sends review-created events to a durable queue. A nil Publisher
// is a valid no-op, used when no broker is configured.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *logrus.Logger
}

// NewPublisher connects to the broker and declares the queue. Pass an empty
// URL to disable publishing and get a nil Publisher without error.
func NewPublisher(url, queue string, log *logrus.Logger) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	log.WithField("queue", queue).Info("event publisher connected")
	return &Publisher{conn: conn, channel: ch, queue: queue, log: log}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// ReviewCreated publishes the stored review as a JSON event. Errors are
// logged, not returned: the review is already persisted.
func (p *Publisher) ReviewCreated(review models.Review) {
	if p == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"event":  "review_created",
		"review": review,
	})
	if err != nil {
		p.log.WithError(err).Error("marshal review event")
		return
	}
	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		p.log.WithError(err).Error("publish review event")
	}
}
