// Package events publishes ticket and filter events to an AMQP exchange so
// external tooling (dashboards, audit pipelines) can follow along. The
// publisher is optional: a nil *Publisher is a valid no-op handle.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"guardian-bot/config"
)

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// New connects to the configured broker and declares the topic exchange.
// Returns (nil, nil) when events are disabled.
func New(cfg *config.EventsConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("[events] Publishing to exchange %q", cfg.Exchange)
	return &Publisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// Publish sends payload as JSON with kind as the routing key. Failures are
// logged and swallowed: event delivery never blocks bot behaviour.
func (p *Publisher) Publish(kind string, payload any) {
	if p == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[events] Failed to encode %s event: %v", kind, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, kind, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		log.Printf("[events] Failed to publish %s event: %v", kind, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.ch.Close()
	_ = p.conn.Close()
}
