package messaging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openferp/directory/internal/directory/events"
	"github.com/openferp/directory/internal/directory/obs"
	"github.com/openferp/directory/pkg/slogx"
)

// Outcome classifies what a Handler did with an event.
type Outcome int

const (
	// Applied: the mutation committed. The message is acknowledged.
	Applied Outcome = iota
	// Dropped: the event can never be applied (unknown target, invalid
	// data, tag this service ignores). The message is acknowledged.
	Dropped
	// Retry: a transient failure rolled the mutation back. The message is
	// returned to the broker.
	Retry
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return obs.OutcomeApplied
	case Dropped:
		return obs.OutcomeDropped
	case Retry:
		return obs.OutcomeRetry
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is returned by a Handler for every event.
type Result struct {
	Outcome Outcome
	Err     error
}

func AppliedResult() Result          { return Result{Outcome: Applied} }
func DroppedResult(err error) Result { return Result{Outcome: Dropped, Err: err} }
func RetryResult(err error) Result   { return Result{Outcome: Retry, Err: err} }

// Handler applies one decoded event.
type Handler interface {
	Apply(ctx context.Context, env events.Envelope) Result
}

// SubscriberConfig says which events the subscriber receives.
type SubscriberConfig struct {
	Exchange string
	Durable  bool

	Queue   string
	Binding string

	// DeadLetterExchange is set as x-dead-letter-exchange on the queue when
	// not empty.
	DeadLetterExchange string

	// RequeueRedelivered returns failed redeliveries to the queue. When
	// false a message that fails twice is rejected without requeue, which
	// dead-letters it when a dead-letter exchange is configured.
	RequeueRedelivered bool

	ConsumerTag string
}

var errDeliveriesClosed = errors.New("messaging: delivery channel closed")

// Subscriber consumes events one at a time from a durable queue and hands
// them to a Handler. It reconnects with backoff when the channel dies.
type Subscriber struct {
	src     ChannelSource
	cfg     SubscriberConfig
	handler Handler
	dedupe  Deduper
	Logger  *slog.Logger

	// NewBackOff returns the wait policy between consume sessions.
	NewBackOff func() backoff.BackOff

	cancel context.CancelFunc
	doneCh chan struct{}
}

func NewSubscriber(src ChannelSource, cfg SubscriberConfig, handler Handler, dedupe Deduper, logger *slog.Logger) *Subscriber {
	if dedupe == nil {
		dedupe = NewMemoryDeduper(DefaultDedupeTTL)
	}
	return &Subscriber{
		src:     src,
		cfg:     cfg,
		handler: handler,
		dedupe:  dedupe,
		Logger:  logger.With(slogx.KeyModule, "subscriber", slogx.KeyLayer, "messaging"),
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
		doneCh: make(chan struct{}),
	}
}

// Start runs the consume loop in the background. It does not block on the
// broker being reachable.
func (s *Subscriber) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(slogx.WithContext(ctx, s.Logger))
	go s.run(ctx)
	s.Logger.Info("subscriber started", "queue", s.cfg.Queue, "binding", s.cfg.Binding)
}

// Stop cancels the loop and waits for the message in flight.
func (s *Subscriber) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.doneCh
	s.Logger.Info("subscriber stopped")
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.doneCh)

	bo := s.NewBackOff()
	for {
		err := s.consume(ctx, bo.Reset)
		if ctx.Err() != nil {
			return
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			s.Logger.Error("subscriber giving up", slogx.KeyErr, err)
			return
		}
		s.Logger.Warn("consume session ended, reconnecting", slogx.KeyErr, err, "retry_in", wait)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// consume runs one session on a fresh channel until it closes or ctx is
// done. ready is called once the queue is consuming.
func (s *Subscriber) consume(ctx context.Context, ready func()) error {
	ch, err := s.src.Channel(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	deliveries, err := s.Setup(ctx, ch)
	if err != nil {
		return err
	}
	ready()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			s.Handle(ctx, d)
		}
	}
}

// Setup declares the exchange, the queue and its binding, limits the channel
// to one unacknowledged message and starts consuming.
func (s *Subscriber) Setup(ctx context.Context, ch Channel) (<-chan amqp.Delivery, error) {
	if err := ch.ExchangeDeclare(s.cfg.Exchange, amqp.ExchangeTopic, s.cfg.Durable, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", s.cfg.Exchange, err)
	}

	var args amqp.Table
	if s.cfg.DeadLetterExchange != "" {
		args = amqp.Table{"x-dead-letter-exchange": s.cfg.DeadLetterExchange}
	}
	q, err := ch.QueueDeclare(s.cfg.Queue, true, false, false, false, args)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", s.cfg.Queue, err)
	}
	if err := ch.QueueBind(q.Name, s.cfg.Binding, s.cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue %s to %s: %w", q.Name, s.cfg.Binding, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return ch.ConsumeWithContext(ctx, q.Name, s.cfg.ConsumerTag, false, false, false, false, nil)
}

// Disposition is what Handle did with a delivery.
type Disposition int

const (
	Acked Disposition = iota
	Requeued
	Rejected
)

// Handle processes one delivery and settles it with the broker.
func (s *Subscriber) Handle(ctx context.Context, d amqp.Delivery) Disposition {
	id := MessageID(d)
	log := slogx.FromContext(ctx).With("message_id", id, "routing_key", d.RoutingKey, "redelivered", d.Redelivered)

	if seen, err := s.dedupe.Seen(ctx, id); err != nil {
		log.Warn("dedupe lookup failed, processing anyway", slogx.KeyErr, err)
	} else if seen {
		log.Info("duplicate message acknowledged")
		obs.EventConsumed(d.Type, obs.OutcomeDuplicate)
		return s.ack(log, d)
	}

	env, err := events.Decode(d.Body)
	if err != nil {
		log.Warn("dropping undecodable message", slogx.KeyErr, err)
		obs.EventConsumed(d.Type, obs.OutcomeDropped)
		return s.ack(log, d)
	}
	log = log.With(slogx.KeyEvent, string(env.Event))

	res := s.handler.Apply(slogx.WithContext(ctx, log), env)
	obs.EventConsumed(string(env.Event), res.Outcome.String())

	switch res.Outcome {
	case Applied:
		disp := s.ack(log, d)
		if err := s.dedupe.Mark(ctx, id); err != nil {
			log.Warn("dedupe mark failed", slogx.KeyErr, err)
		}
		log.Info("event applied")
		return disp

	case Dropped:
		log.Warn("event dropped", slogx.KeyErr, res.Err)
		return s.ack(log, d)

	default:
		requeue := s.cfg.RequeueRedelivered || !d.Redelivered
		log.Error("event failed", slogx.KeyErr, res.Err, "requeue", requeue)
		if err := d.Nack(false, requeue); err != nil {
			log.Error("nack failed", slogx.KeyErr, err)
		}
		if requeue {
			return Requeued
		}
		return Rejected
	}
}

func (s *Subscriber) ack(log *slog.Logger, d amqp.Delivery) Disposition {
	if err := d.Ack(false); err != nil {
		log.Error("ack failed", slogx.KeyErr, err)
	}
	return Acked
}

// MessageID returns the broker message id, or a digest of the body for
// producers that do not set one. A redelivered message keeps its body so
// the digest is stable.
func MessageID(d amqp.Delivery) string {
	if d.MessageId != "" {
		return d.MessageId
	}
	sum := sha256.Sum256(d.Body)
	return "sha256:" + hex.EncodeToString(sum[:])
}
