package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	PublishCartCheckedOut(ctx context.Context, meta EventMeta, payload CartCheckedOutPayload) error
	Close() error
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch       channel
	seqRepo  SequenceRepository
	producer string
}

func NewRabbitPublisher(conn *amqp.Connection, seqRepo SequenceRepository) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &RabbitPublisher{ch: ch, seqRepo: seqRepo, producer: ProducerName}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishCartCheckedOut(ctx context.Context, meta EventMeta, payload CartCheckedOutPayload) error {
	seq, err := p.seqRepo.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newCartCheckedOutEvent(meta, seq, p.producer, payload, time.Now().UTC())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal CartCheckedOut envelope: %w", err)
	}
	return p.publishJSON(ctx, CartCheckedOutRoutingKey, body)
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct {
	Log logrus.FieldLogger
}

func (n NopPublisher) PublishCartCheckedOut(ctx context.Context, meta EventMeta, payload CartCheckedOutPayload) error {
	if n.Log != nil {
		n.Log.WithFields(logrus.Fields{"orderId": payload.OrderID, "sessionId": payload.SessionID}).Debug("event publishing disabled, dropping CartCheckedOut")
	}
	return nil
}

func (NopPublisher) Close() error { return nil }
