//go:build integration

package messaging_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/events"
	"github.com/openferp/directory/internal/directory/messaging"
)

// startContainer runs image until the test ends.
func startContainer(t *testing.T, image, port string, waitFor wait.Strategy) testcontainers.Container {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port + "/tcp"},
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	return container
}

func hostPort(t *testing.T, c testcontainers.Container, mapped string) (string, int) {
	t.Helper()
	host, err := c.Host(context.Background())
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped)
	require.NoError(t, err)
	return host, port
}

func TestPublishAndConsumeThroughRabbitMQ(t *testing.T) {
	c := startContainer(t, "rabbitmq:3.13-alpine", "5672",
		wait.ForLog("Server startup complete").WithStartupTimeout(90*time.Second))
	mapped, err := c.MappedPort(context.Background(), "5672")
	require.NoError(t, err)
	host, port := hostPort(t, c, mapped.Port())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn := messaging.NewConn(messaging.URL(host, port, "guest", "guest", "/"), "directory-test")
	require.NoError(t, conn.Connect(ctx))
	defer conn.Close()

	got := make(chan events.Envelope, 4)
	sub := messaging.NewSubscriber(conn, messaging.SubscriberConfig{
		Exchange: "openferp",
		Durable:  true,
		Queue:    "directory_test_queue",
		Binding:  "*.rh",
	}, handlerFunc(func(_ context.Context, env events.Envelope) messaging.Result {
		got <- env
		return messaging.AppliedResult()
	}), nil, quietLogger())
	sub.Start(ctx)
	defer sub.Stop()

	// Give the subscriber time to bind its queue before publishing.
	time.Sleep(2 * time.Second)

	pub := messaging.NewPublisher(conn, messaging.PublisherConfig{
		Exchange:      "openferp",
		Durable:       true,
		RoutingPrefix: "sells",
		Routes:        []string{"rh", "pt"},
		Origin:        "sells",
	})
	defer pub.Close()

	name := "Acme 2"
	env := events.NewEnterpriseUpdated("ent1", domain.EnterprisePatch{Name: &name})
	require.NoError(t, pub.Publish(ctx, env))

	select {
	case e := <-got:
		require.Equal(t, events.EnterpriseUpdated, e.Event)
		require.Equal(t, env.Data, e.Data)
		require.Equal(t, "sells", e.Origin)
	case <-ctx.Done():
		t.Fatal("event not consumed")
	}

	select {
	case e := <-got:
		t.Fatalf("unexpected second delivery %s: only sells.rh matches the binding", e.Event)
	case <-time.After(time.Second):
	}
}

func TestRedisDeduper(t *testing.T) {
	c := startContainer(t, "redis:7-alpine", "6379",
		wait.ForLog("Ready to accept connections").WithStartupTimeout(60*time.Second))
	mapped, err := c.MappedPort(context.Background(), "6379")
	require.NoError(t, err)
	host, port := hostPort(t, c, mapped.Port())

	rdb := messaging.NewRedisClient(fmt.Sprintf("%s:%d", host, port), "", 0)
	defer rdb.Close()

	d := messaging.NewRedisDeduper(rdb, "directory:msg:", time.Minute)
	ctx := context.Background()

	seen, err := d.Seen(ctx, "m-1")
	require.NoError(t, err)
	require.False(t, seen)

	require.NoError(t, d.Mark(ctx, "m-1"))
	require.NoError(t, d.Mark(ctx, "m-1"))

	seen, err = d.Seen(ctx, "m-1")
	require.NoError(t, err)
	require.True(t, seen)
}
