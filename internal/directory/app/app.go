package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/openferp/directory/internal/directory/http"
	"github.com/openferp/directory/internal/directory/messaging"
	"github.com/openferp/directory/internal/directory/obs"
	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/internal/directory/store/drivers/sqlstore"
	"github.com/openferp/directory/pkg/cryptox"
	"github.com/openferp/directory/pkg/httpx"
	"github.com/openferp/directory/pkg/jwtx"
	"github.com/openferp/directory/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// ServiceName names the service in logs and on the broker connection.
	ServiceName = "directory-service"
)

// Application encapsulates the directory service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     *sqlstore.Store
	hasher cryptox.PasswordHasher
	keys   SessionKeys

	// Broker; nil when BROKER_ENABLED is false
	conn       *messaging.Conn
	publisher  *messaging.Publisher
	subscriber *messaging.Subscriber
	redis      *redis.Client

	// Services
	sessionService    *service.SessionService
	userService       *service.UserService
	enterpriseService *service.EnterpriseService

	// HTTP server
	server *http.Server
	router *httpapi.Router

	cancel context.CancelFunc
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: ServiceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.PasswordHasher{Pepper: pepper}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitSessionKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keys = keys

	app.initServices()
	app.initBroker()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(slogx.WithContext(context.Background(), app.logger))
	app.cancel = cancel

	if app.subscriber != nil {
		app.subscriber.Start(ctx)
	}

	app.logger.Info("directory service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down directory service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.KeyErr, err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.KeyErr, err)
		}
	}

	// Stop consuming before the connection goes away so the in-flight
	// message is settled.
	if app.subscriber != nil {
		app.subscriber.Stop()
	}
	if app.cancel != nil {
		app.cancel()
	}
	if app.publisher != nil {
		_ = app.publisher.Close()
	}
	if app.conn != nil {
		if err := app.conn.Close(); err != nil {
			app.logger.Error("error closing broker connection", slogx.KeyErr, err)
		}
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.KeyErr, err)
		return err
	}

	app.logger.Info("directory service stopped")
	return nil
}

// initDatabase opens the configured database and applies migrations. The
// test environment starts from an empty directory.
func (app *Application) initDatabase() error {
	dialect, err := sqlstore.ParseDialect(app.cfg.DatabaseDriver)
	if err != nil {
		return err
	}

	dsn := app.cfg.DatabaseURL
	if dialect == sqlstore.DialectSQLite {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	} else if dsn == "" {
		return errors.New("DATABASE_URL is required for postgres")
	}

	db, err := sqlstore.Open(dialect, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", "driver", dialect.String())

	if app.cfg.Env == EnvTest {
		if err := db.Reset(context.Background()); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to reset database: %w", err)
		}
		app.logger.Warn("test environment: database wiped")
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:  app.db,
		Hasher: app.hasher,
		Access: &jwtx.Issuer{
			Keys:   app.keys.Access,
			Issuer: app.cfg.JWTIssuer,
			Type:   jwtx.TypeAccess,
		},
		Refresh: &jwtx.Issuer{
			Keys:   app.keys.Refresh,
			Issuer: app.cfg.JWTIssuer,
			Type:   jwtx.TypeRefresh,
		},
		AccessTTL:  app.cfg.JWTAccessTTL,
		RefreshTTL: app.cfg.JWTRefreshTTL,
	}

	app.userService = &service.UserService{Store: app.db, Hasher: app.hasher}
	app.enterpriseService = &service.EnterpriseService{Store: app.db, Hasher: app.hasher}
}

// initBroker wires the event publisher into the services and builds the
// subscriber that applies events from the other services. Nothing is
// dialed here; the connection is established on first use.
func (app *Application) initBroker() {
	if !app.cfg.BrokerEnabled {
		nop := service.Announcer{Publisher: messaging.NopPublisher{}, Timeout: app.cfg.PublishTimeout}
		app.userService.Announcer = nop
		app.enterpriseService.Announcer = nop
		app.logger.Warn("broker disabled: changes are not announced and no events are consumed")
		return
	}

	url := messaging.URL(app.cfg.BrokerHost, app.cfg.BrokerPort, app.cfg.BrokerUser, app.cfg.BrokerPass, app.cfg.BrokerVHost)
	app.conn = messaging.NewConn(url, ServiceName)

	app.publisher = messaging.NewPublisher(app.conn, messaging.PublisherConfig{
		Exchange:      app.cfg.Exchange,
		Durable:       app.cfg.ExchangeDurable,
		RoutingPrefix: app.cfg.RoutingPrefix,
		Routes:        app.cfg.Routes,
		Origin:        app.cfg.Origin,
	})

	announcer := service.Announcer{Publisher: app.publisher, Timeout: app.cfg.PublishTimeout}
	app.userService.Announcer = announcer
	app.enterpriseService.Announcer = announcer

	var dedupe messaging.Deduper
	if app.cfg.RedisAddr != "" {
		app.redis = messaging.NewRedisClient(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)
		dedupe = messaging.NewRedisDeduper(app.redis, ServiceName+":seen:", messaging.DefaultDedupeTTL)
		app.logger.Info("consumer dedupe backed by redis", "addr", app.cfg.RedisAddr)
	} else {
		dedupe = messaging.NewMemoryDeduper(messaging.DefaultDedupeTTL)
	}

	applier := &service.Applier{Users: app.userService, Enterprises: app.enterpriseService}
	app.subscriber = messaging.NewSubscriber(app.conn, messaging.SubscriberConfig{
		Exchange:           app.cfg.Exchange,
		Durable:            app.cfg.ExchangeDurable,
		Queue:              app.cfg.ConsumeQueue,
		Binding:            app.cfg.ConsumeBinding,
		DeadLetterExchange: app.cfg.DeadLetterExchange,
		RequeueRedelivered: app.cfg.RequeueRedelivered,
		ConsumerTag:        ServiceName,
	}, applier, dedupe, app.logger)

	app.logger.Info("broker configured",
		"exchange", app.cfg.Exchange,
		"routing_keys", app.publisher.RoutingKeys(),
		"queue", app.cfg.ConsumeQueue,
		"binding", app.cfg.ConsumeBinding,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	obs.Init()

	router := httpapi.NewRouter(
		app.keys.Access,
		BuildVersion,
		app.db,
		app.logger,
		httpx.RateLimitsFromEnv(),
		app.cfg.Origins(httpx.DevOrigins),
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.EnterpriseService = app.enterpriseService
	if app.conn != nil {
		router.BrokerReady = app.conn.IsOpen
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
