package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openferp/directory/internal/directory/events"
	"github.com/openferp/directory/internal/directory/obs"
	"github.com/openferp/directory/pkg/slogx"
)

// Header names carrying the routing metadata of an envelope.
const (
	HeaderEventScope   = "event_scope"
	HeaderUpdateScope  = "update_scope"
	HeaderEnterpriseID = "enterprise_id"
)

// PublisherConfig says where events go.
type PublisherConfig struct {
	Exchange string
	Durable  bool

	// Every event is sent once per route, with key "<RoutingPrefix>.<route>".
	RoutingPrefix string
	Routes        []string

	// Origin stamps envelopes that do not carry one.
	Origin string
}

// Publisher sends envelopes to a topic exchange.
type Publisher struct {
	src  ChannelSource
	cfg  PublisherConfig
	keys []string

	Now   func() time.Time
	NewID func() string

	mu sync.Mutex
	ch Channel
}

func NewPublisher(src ChannelSource, cfg PublisherConfig) *Publisher {
	return &Publisher{
		src:   src,
		cfg:   cfg,
		keys:  events.RoutingKeys(cfg.RoutingPrefix, cfg.Routes),
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// RoutingKeys returns the keys every event is published to.
func (p *Publisher) RoutingKeys() []string { return p.keys }

// Publish stamps env and sends it persistently to every routing key. A
// failing key does not stop the others; the failures are joined into the
// returned error.
func (p *Publisher) Publish(ctx context.Context, env events.Envelope) error {
	log := slogx.Component(ctx, "publisher", "messaging").With(slogx.KeyEvent, string(env.Event))

	if env.Origin == "" {
		env.Origin = p.cfg.Origin
	}
	if env.StartDate.IsZero() {
		env.StartDate = p.Now().UTC()
	}
	if env.MessageID == "" {
		env.MessageID = p.NewID()
	}

	body, err := events.Encode(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Event, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.MessageID,
		Timestamp:    env.StartDate,
		Type:         string(env.Event),
		AppId:        env.Origin,
		Headers:      headers(env),
		Body:         body,
	}

	var errs []error
	for _, key := range p.keys {
		err := p.publishOne(ctx, key, msg)
		obs.EventPublished(string(env.Event), key, err)
		if err != nil {
			log.Error("publish failed", "routing_key", key, "message_id", env.MessageID, slogx.KeyErr, err)
			errs = append(errs, fmt.Errorf("route %s: %w", key, err))
			continue
		}
		log.Debug("event published", "routing_key", key, "message_id", env.MessageID)
	}
	return errors.Join(errs...)
}

func (p *Publisher) publishOne(ctx context.Context, key string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked(ctx)
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, p.cfg.Exchange, key, false, false, msg); err != nil {
		// The channel is unusable after most publish errors. Open a fresh
		// one for the next attempt.
		p.resetLocked()
		return err
	}
	return nil
}

func (p *Publisher) channelLocked(ctx context.Context) (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.src.Channel(ctx)
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(p.cfg.Exchange, amqp.ExchangeTopic, p.cfg.Durable, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
}

// Close releases the publishing channel. The connection stays open.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

func headers(env events.Envelope) amqp.Table {
	h := amqp.Table{}
	if env.EventScope != "" {
		h[HeaderEventScope] = env.EventScope
	}
	if env.UpdateScope != "" {
		h[HeaderUpdateScope] = env.UpdateScope
	}
	if id := env.EnterpriseID(); id != "" {
		h[HeaderEnterpriseID] = id
	}
	return h
}

// NopPublisher logs envelopes instead of sending them. Used when the broker
// is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, env events.Envelope) error {
	slogx.Component(ctx, "publisher", "messaging").Debug("broker disabled, event not sent",
		slogx.KeyEvent, string(env.Event),
		"routing_scope", env.RoutingScope(),
	)
	return nil
}
