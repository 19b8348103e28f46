package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openferp/directory/internal/directory/messaging"
	"github.com/openferp/directory/internal/directory/service"
)

func newBrokerTestApp(cfg Config) *Application {
	return &Application{
		cfg:               cfg,
		logger:            discardLogger(),
		userService:       &service.UserService{},
		enterpriseService: &service.EnterpriseService{},
	}
}

func TestInitBrokerDisabledUsesNopPublisher(t *testing.T) {
	app := newBrokerTestApp(Config{BrokerEnabled: false, PublishTimeout: time.Second})

	app.initBroker()

	require.Nil(t, app.conn)
	require.Nil(t, app.subscriber)
	require.IsType(t, messaging.NopPublisher{}, app.userService.Announcer.Publisher)
	require.IsType(t, messaging.NopPublisher{}, app.enterpriseService.Announcer.Publisher)
	require.Equal(t, time.Second, app.userService.Announcer.Timeout)
}

func TestInitBrokerEnabledUsesBrokerPublisher(t *testing.T) {
	app := newBrokerTestApp(Config{
		BrokerEnabled:  true,
		BrokerHost:     "localhost",
		BrokerPort:     5672,
		BrokerUser:     "guest",
		BrokerPass:     "guest",
		Exchange:       "openferp",
		RoutingPrefix:  "rh_event",
		Routes:         []string{"sells", "pt"},
		Origin:         "rh",
		ConsumeQueue:   "rh_event_queue",
		ConsumeBinding: "*.rh",
	})

	app.initBroker()

	require.NotNil(t, app.conn)
	require.NotNil(t, app.subscriber)
	require.IsType(t, &messaging.Publisher{}, app.userService.Announcer.Publisher)
	require.Same(t, app.publisher, app.enterpriseService.Announcer.Publisher)
}
