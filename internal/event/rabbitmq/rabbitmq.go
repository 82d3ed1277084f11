// Package rabbitmq publishes scoring events to a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/scoreit/scoreit/internal/event"
)

const DefaultExchange = "scoreit_topic"

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch       Channel
	exchange string
}

// NewPublisher declares the exchange and returns a publisher for it.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		ch:       ch,
		exchange: exchange,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, evt *event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		evt.RoutingKey(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
}

// Dial connects to the broker and opens a channel for publishing.
func Dial(url string) (*amqp.Channel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, func() {}, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, func() {}, err
	}

	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}
