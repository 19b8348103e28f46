package service

import (
	"context"
	"time"

	"github.com/openferp/directory/internal/directory/events"
	"github.com/openferp/directory/pkg/slogx"
)

// DefaultPublishTimeout bounds the broker round trip of one announcement.
const DefaultPublishTimeout = 5 * time.Second

// Publisher sends an event to the broker. messaging.Publisher and
// messaging.NopPublisher implement it.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// Announcer publishes committed changes. Publishing is best effort: the
// mutation is already durable, so a failure is logged and never returned.
type Announcer struct {
	Publisher Publisher
	Timeout   time.Duration
}

func (a Announcer) announce(ctx context.Context, envs ...events.Envelope) {
	if a.Publisher == nil {
		return
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	// The request may be answered and cancelled before the broker replies.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	log := slogx.FromContext(ctx)
	for _, env := range envs {
		if err := a.Publisher.Publish(ctx, env); err != nil {
			log.Error("failed to publish event",
				slogx.KeyEvent, string(env.Event),
				slogx.KeyErr, err,
			)
		}
	}
}
