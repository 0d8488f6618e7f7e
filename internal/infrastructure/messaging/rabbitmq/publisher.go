package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/application/onboarding"
	appctx "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/pkg/context"
)

const (
	DefaultExchange = "onboarding.events"

	// upper bound when the caller brings no deadline
	publishTimeout = 2 * time.Second
)

// confirmPublisher is the part of *amqp.Channel the publisher needs.
type confirmPublisher interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
}

type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel
	pub  confirmPublisher

	now   func() time.Time
	newID func() string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		url:      url,
		exchange: exchange,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetConn()
	return nil
}

// ---- onboarding.EventPublisher ----

func (p *Publisher) PublishConfigUpdated(ctx context.Context, evt onboarding.ConfigUpdatedEvent) error {
	return publishEnvelope(ctx, p, RoutingConfigUpdated, evt)
}

func (p *Publisher) PublishDraftStarted(ctx context.Context, evt onboarding.DraftStartedEvent) error {
	return publishEnvelope(ctx, p, RoutingDraftStarted, evt)
}

func (p *Publisher) PublishDraftCompleted(ctx context.Context, evt onboarding.DraftCompletedEvent) error {
	return publishEnvelope(ctx, p, RoutingDraftCompleted, evt)
}

// ---- internal ----

func publishEnvelope[T any](ctx context.Context, p *Publisher, routingKey string, payload T) error {
	env := Envelope[T]{
		Version:    EnvelopeVersion,
		Producer:   Producer,
		MessageID:  p.newID(),
		TraceID:    appctx.GetRequestID(ctx),
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return p.publish(ctx, routingKey, env.MessageID, body)
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.conn = conn
	p.ch = ch
	p.pub = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.pub != nil && (p.conn == nil || !p.conn.IsClosed()) {
		return nil
	}
	p.resetConn()
	return p.connect()
}

func (p *Publisher) publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Not mandatory: an event without subscribers is not an error here.
	dc, err := p.pub.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}
	if dc == nil {
		// channel not in confirm mode
		return nil
	}

	ack, err := dc.WaitContext(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("rabbitmq publish timeout: key=%s", routingKey)
		}
		return err
	}
	if !ack {
		return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, dc.DeliveryTag)
	}
	return nil
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.pub = nil
}
