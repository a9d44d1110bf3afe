// Package app wires the application together. A Container hands out lazily
// built singletons for every component, from the database handle up to the
// HTTP servers.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	attestationsHTTP "github.com/allisson/attestations/internal/attestations/http"
	attestationsUseCase "github.com/allisson/attestations/internal/attestations/usecase"
	authHTTP "github.com/allisson/attestations/internal/auth/http"
	authService "github.com/allisson/attestations/internal/auth/service"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
	"github.com/allisson/attestations/internal/config"
	"github.com/allisson/attestations/internal/database"
	"github.com/allisson/attestations/internal/http"
	"github.com/allisson/attestations/internal/metrics"
	outboxRepository "github.com/allisson/attestations/internal/outbox/repository"
	outboxUsecase "github.com/allisson/attestations/internal/outbox/usecase"
	schemasHTTP "github.com/allisson/attestations/internal/schemas/http"
	schemasUseCase "github.com/allisson/attestations/internal/schemas/usecase"
)

// lazy builds a value at most once and remembers the outcome. A failed build
// is sticky: every later call observes the same error.
type lazy[T any] struct {
	once  sync.Once
	built bool
	value T
	err   error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = build()
		l.built = l.err == nil
	})
	return l.value, l.err
}

// peek returns the value only if a build already succeeded.
func (l *lazy[T]) peek() (T, bool) {
	var zero T
	if !l.built {
		return zero, false
	}
	return l.value, true
}

// Container assembles the application on demand. Accessors are safe for
// concurrent use and always hand back the same instance.
type Container struct {
	config *config.Config

	mu sync.Mutex // serializes Shutdown

	logger lazy[*slog.Logger]
	db     lazy[*sql.DB]

	txManager lazy[database.TxManager]

	metricsProvider lazy[*metrics.Provider]
	businessMetrics lazy[metrics.BusinessMetrics]

	outboxRepository lazy[outboxUsecase.OutboxEventRepository]
	outboxUseCase    lazy[outboxUsecase.UseCase]

	secretService             lazy[authService.SecretService]
	tokenService              lazy[authService.TokenService]
	clientRepository          lazy[authUseCase.ClientRepository]
	tokenRepository           lazy[authUseCase.TokenRepository]
	auditLogRepository        lazy[authUseCase.AuditLogRepository]
	adminCredentialRepository lazy[authUseCase.AdminCredentialRepository]
	auditSigningKey           lazy[[]byte]
	clientUseCase             lazy[authUseCase.ClientUseCase]
	tokenUseCase              lazy[authUseCase.TokenUseCase]
	auditLogUseCase           lazy[authUseCase.AuditLogUseCase]
	adminCredentialUseCase    lazy[authUseCase.AdminCredentialUseCase]
	clientHandler             lazy[*authHTTP.ClientHandler]
	tokenHandler              lazy[*authHTTP.TokenHandler]
	auditLogHandler           lazy[*authHTTP.AuditLogHandler]

	schemaRepository        lazy[schemasUseCase.SchemaRepository]
	creatorPolicyRepository lazy[schemasUseCase.CreatorPolicyRepository]
	schemaUseCase           lazy[schemasUseCase.SchemaUseCase]
	schemaHandler           lazy[*schemasHTTP.SchemaHandler]
	creatorPolicyHandler    lazy[*schemasHTTP.CreatorPolicyHandler]

	attestationRepository lazy[attestationsUseCase.AttestationRepository]
	attestationUseCase    lazy[attestationsUseCase.AttestationUseCase]
	attestationHandler    lazy[*attestationsHTTP.AttestationHandler]

	httpServer    lazy[*http.Server]
	metricsServer lazy[*http.MetricsServer]
}

// NewContainer returns a container that builds components against the given
// configuration on first use.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// openRepository builds the driver specific repository implementation against
// the shared database handle.
func openRepository[T any](c *Container, postgres, mysql func(*sql.DB) T) (T, error) {
	var zero T
	db, err := c.DB()
	if err != nil {
		return zero, err
	}

	switch c.config.DBDriver {
	case "postgres":
		return postgres(db), nil
	case "mysql":
		return mysql(db), nil
	default:
		return zero, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// decorate wraps a use case in its metrics decorator when metrics are enabled.
func decorate[T any](c *Container, base T, wrap func(T, metrics.BusinessMetrics) T) (T, error) {
	if !c.config.MetricsEnabled {
		return base, nil
	}

	recorder, err := c.BusinessMetrics()
	if err != nil {
		var zero T
		return zero, err
	}
	return wrap(base, recorder), nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the process wide structured logger.
func (c *Container) Logger() *slog.Logger {
	logger, _ := c.logger.get(func() (*slog.Logger, error) {
		return c.buildLogger(), nil
	})
	return logger
}

// DB returns the shared database handle, opening the pool on first access.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(c.buildDB)
}

// TxManager returns the transaction manager bound to the database handle.
func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(c.buildTxManager)
}

// MetricsProvider returns the OpenTelemetry meter provider with Prometheus export.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(metrics.NewProvider)
}

// BusinessMetrics returns the recorder used by the use case decorators. When
// metrics are disabled a no-op recorder is handed out instead.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(c.buildBusinessMetrics)
}

// OutboxRepository returns the outbox event repository for the configured driver.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	return c.outboxRepository.get(c.buildOutboxRepository)
}

// OutboxUseCase returns the outbox relay use case.
func (c *Container) OutboxUseCase() (outboxUsecase.UseCase, error) {
	return c.outboxUseCase.get(c.buildOutboxUseCase)
}

// HTTPServer returns the API server with the full router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	return c.httpServer.get(c.buildHTTPServer)
}

// MetricsServer returns the server exposing the Prometheus scrape endpoint.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(c.buildMetricsServer)
}

// Shutdown stops everything that was actually built, servers first so
// in-flight requests drain before the database handle closes.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if server, ok := c.httpServer.peek(); ok {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if server, ok := c.metricsServer.peek(); ok {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if provider, ok := c.metricsProvider.peek(); ok {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if db, ok := c.db.peek(); ok {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) buildLogger() *slog.Logger {
	level := slog.LevelInfo
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func (c *Container) buildDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:           c.config.DBDriver,
		ConnectionString: c.config.DBConnectionString,
		MaxOpenConns:     c.config.DBMaxOpenConnections,
		MaxIdleConns:     c.config.DBMaxIdleConnections,
		ConnMaxLifetime:  c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) buildTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	return database.NewTxManager(db), nil
}

func (c *Container) buildBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) buildOutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	return openRepository(c,
		func(db *sql.DB) outboxUsecase.OutboxEventRepository {
			return outboxRepository.NewPostgreSQLOutboxEventRepository(db)
		},
		func(db *sql.DB) outboxUsecase.OutboxEventRepository {
			return outboxRepository.NewMySQLOutboxEventRepository(db)
		},
	)
}

func (c *Container) buildOutboxUseCase() (outboxUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, err
	}

	// Without an explicit publisher events are drained to the log.
	var processor outboxUsecase.EventProcessor
	switch c.config.OutboxPublisher {
	case "amqp":
		processor = outboxUsecase.NewAMQPEventProcessor(outboxUsecase.AMQPConfig{
			URL:      c.config.AMQPURL,
			Exchange: c.config.AMQPExchange,
		})
	default:
		processor = outboxUsecase.NewLogEventProcessor(c.Logger())
	}

	relayConfig := outboxUsecase.Config{
		Interval:      c.config.WorkerInterval,
		BatchSize:     c.config.WorkerBatchSize,
		MaxRetries:    c.config.WorkerMaxRetries,
		RetryInterval: c.config.WorkerRetryInterval,
	}

	return outboxUsecase.NewOutboxUseCase(relayConfig, txManager, outboxRepo, processor, c.Logger()), nil
}

func (c *Container) buildHTTPServer() (*http.Server, error) {
	routerConfig := http.RouterConfig{
		TokenService: c.TokenService(),

		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,

		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,

		RateLimitTokenEnabled:        c.config.RateLimitTokenEnabled,
		RateLimitTokenRequestsPerSec: c.config.RateLimitTokenRequestsPerSec,
		RateLimitTokenBurst:          c.config.RateLimitTokenBurst,

		MetricsEnabled:   c.config.MetricsEnabled,
		MetricsNamespace: c.config.MetricsNamespace,
	}

	var err error
	if routerConfig.TokenUseCase, err = c.TokenUseCase(); err != nil {
		return nil, err
	}
	if routerConfig.AuditLogUseCase, err = c.AuditLogUseCase(); err != nil {
		return nil, err
	}
	if routerConfig.AdminCredentialUseCase, err = c.AdminCredentialUseCase(); err != nil {
		return nil, err
	}
	if routerConfig.TokenHandler, err = c.TokenHandler(); err != nil {
		return nil, err
	}
	if routerConfig.ClientHandler, err = c.ClientHandler(); err != nil {
		return nil, err
	}
	if routerConfig.AuditLogHandler, err = c.AuditLogHandler(); err != nil {
		return nil, err
	}
	if routerConfig.SchemaHandler, err = c.SchemaHandler(); err != nil {
		return nil, err
	}
	if routerConfig.CreatorPolicyHandler, err = c.CreatorPolicyHandler(); err != nil {
		return nil, err
	}
	if routerConfig.AttestationHandler, err = c.AttestationHandler(); err != nil {
		return nil, err
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(routerConfig)

	return server, nil
}

func (c *Container) buildMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
