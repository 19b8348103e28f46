// Package messaging connects the directory to the AMQP broker: a
// reconnecting connection, the event publisher and the event subscriber.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openferp/directory/pkg/slogx"
)

// ErrConnClosed is returned once Close has been called.
var ErrConnClosed = errors.New("messaging: connection closed")

// Channel is the part of *amqp.Channel the publisher and the subscriber use.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ChannelSource hands out channels on a live connection.
type ChannelSource interface {
	Channel(ctx context.Context) (Channel, error)
}

// URL builds an amqp:// URL.
func URL(host string, port int, user, pass, vhost string) string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		Vhost:    vhost,
	}.String()
}

// Conn is a broker connection that dials again when the previous one was
// closed. Dialing retries with exponential backoff until the context passed
// by the caller is done.
type Conn struct {
	url    string
	config amqp.Config

	// NewBackOff returns the retry policy of a dial. Defaults to an
	// exponential backoff without elapsed time limit.
	NewBackOff func() backoff.BackOff

	dialing chan struct{}

	mu     sync.Mutex
	conn   *amqp.Connection
	closed bool
}

// NewConn returns a connection to url. Nothing is dialed until the first
// Connect or Channel call.
func NewConn(url, name string) *Conn {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(name)

	return &Conn{
		url:     url,
		dialing: make(chan struct{}, 1),
		config: amqp.Config{
			Heartbeat:  10 * time.Second,
			Locale:     "en_US",
			Properties: props,
		},
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Connect dials the broker unless a live connection exists.
func (c *Conn) Connect(ctx context.Context) error {
	_, err := c.connect(ctx)
	return err
}

// Channel opens a channel, dialing first if the connection is down.
func (c *Conn) Channel(ctx context.Context) (Channel, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

// IsOpen reports whether a live connection exists.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.conn.IsClosed()
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}

func (c *Conn) live() (*amqp.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnClosed
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}
	return nil, nil
}

// connect returns the live connection or dials a new one. Only one caller
// dials at a time; the others wait for it or for their own context.
func (c *Conn) connect(ctx context.Context) (*amqp.Connection, error) {
	if conn, err := c.live(); conn != nil || err != nil {
		return conn, err
	}

	select {
	case c.dialing <- struct{}{}:
		defer func() { <-c.dialing }()
	case <-ctx.Done():
		return nil, fmt.Errorf("dial broker: %w", ctx.Err())
	}

	// Another caller may have finished dialing while this one waited.
	if conn, err := c.live(); conn != nil || err != nil {
		return conn, err
	}

	log := slogx.Component(ctx, "conn", "messaging")

	var conn *amqp.Connection
	op := func() error {
		var err error
		conn, err = amqp.DialConfig(c.url, c.config)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("broker dial failed, retrying", slogx.KeyErr, err, "retry_in", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(c.NewBackOff(), ctx), notify); err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		_ = conn.Close()
		return nil, ErrConnClosed
	}

	log.Info("broker connected", slog.String("remote", conn.RemoteAddr().String()))
	c.conn = conn
	return conn, nil
}
