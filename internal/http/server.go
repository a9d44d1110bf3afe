// Package http assembles the Gin engine: route registration for every
// domain, the shared middleware chain and the lifecycle of the API and
// metrics listeners.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	attestationsHttp "github.com/allisson/attestations/internal/attestations/http"
	authDomain "github.com/allisson/attestations/internal/auth/domain"
	authHttp "github.com/allisson/attestations/internal/auth/http"
	authService "github.com/allisson/attestations/internal/auth/service"
	authUseCase "github.com/allisson/attestations/internal/auth/usecase"
	"github.com/allisson/attestations/internal/metrics"
	schemasHttp "github.com/allisson/attestations/internal/schemas/http"
)

// Server represents the HTTP server for the attestation registry API.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The database handle is used by the
// readiness endpoint to report whether the registry can serve requests.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig holds the handlers and middleware dependencies used to build the API router.
type RouterConfig struct {
	// Authentication and audit dependencies for the middleware chain.
	TokenUseCase           authUseCase.TokenUseCase
	TokenService           authService.TokenService
	AuditLogUseCase        authUseCase.AuditLogUseCase
	AdminCredentialUseCase authUseCase.AdminCredentialUseCase

	// Handlers.
	TokenHandler         *authHttp.TokenHandler
	ClientHandler        *authHttp.ClientHandler
	AuditLogHandler      *authHttp.AuditLogHandler
	SchemaHandler        *schemasHttp.SchemaHandler
	CreatorPolicyHandler *schemasHttp.CreatorPolicyHandler
	AttestationHandler   *attestationsHttp.AttestationHandler

	// CORS settings.
	CORSEnabled      bool
	CORSAllowOrigins string

	// Rate limiting for authenticated endpoints (per client).
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	// Rate limiting for the token endpoint (per IP, runs before authentication).
	RateLimitTokenEnabled        bool
	RateLimitTokenRequestsPerSec float64
	RateLimitTokenBurst          int

	// HTTP metrics settings.
	MetricsEnabled   bool
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// SetupRouter configures the Gin router with all API routes and middleware.
//
// Middleware order matters: request IDs and logging wrap everything, CORS and
// metrics run next, then per-route chains apply authentication, per-client
// rate limiting, and capability authorization before the handler.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	// Operational endpoints, no authentication required.
	router.GET("/healthz", s.healthHandler)
	router.GET("/readyz", s.readinessHandler)

	authenticate := authHttp.AuthenticationMiddleware(cfg.TokenUseCase, cfg.TokenService, s.logger)
	authorize := func(capability authDomain.Capability) gin.HandlerFunc {
		return authHttp.AuthorizationMiddleware(capability, cfg.AuditLogUseCase, s.logger)
	}

	v1 := router.Group("/api/v1")

	// Token issuance authenticates by client credentials in the request body,
	// so it sits outside the bearer token chain. Rate limited per IP.
	tokenRoutes := v1.Group("/auth")
	if cfg.RateLimitTokenEnabled {
		tokenRoutes.Use(authHttp.TokenRateLimitMiddleware(
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			s.logger,
		))
	}
	tokenRoutes.POST("/token", cfg.TokenHandler.IssueTokenHandler)

	// All remaining routes require a valid bearer token. Per-client rate
	// limiting needs the authenticated client, so it runs after authentication.
	protected := v1.Group("")
	protected.Use(authenticate)
	if cfg.RateLimitEnabled {
		protected.Use(authHttp.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}

	// Schema registry.
	protected.POST("/schemas", authorize(authDomain.WriteCapability), cfg.SchemaHandler.RegisterHandler)
	protected.GET("/schemas", authorize(authDomain.ReadCapability), cfg.SchemaHandler.ListHandler)
	protected.GET("/schemas/:id", authorize(authDomain.ReadCapability), cfg.SchemaHandler.GetHandler)
	protected.GET(
		"/schemas/:id/attestations",
		authorize(authDomain.ReadCapability),
		cfg.AttestationHandler.QueryBySchemaHandler,
	)

	// Creator policy. Updates additionally require the admin credential header.
	protected.GET("/creator-policy", authorize(authDomain.ReadCapability), cfg.CreatorPolicyHandler.GetHandler)
	protected.PUT(
		"/creator-policy",
		authorize(authDomain.AdminCapability),
		authHttp.AdminCredentialMiddleware(cfg.AdminCredentialUseCase, s.logger),
		cfg.CreatorPolicyHandler.UpdateHandler,
	)

	// Attestation lifecycle.
	protected.POST("/attestations", authorize(authDomain.WriteCapability), cfg.AttestationHandler.CreateHandler)
	protected.GET("/attestations/:id", authorize(authDomain.ReadCapability), cfg.AttestationHandler.GetHandler)
	protected.GET(
		"/attestations/:id/validity",
		authorize(authDomain.ReadCapability),
		cfg.AttestationHandler.ValidityHandler,
	)
	protected.POST(
		"/attestations/:id/revoke",
		authorize(authDomain.RevokeCapability),
		cfg.AttestationHandler.RevokeHandler,
	)

	// Subject index.
	protected.GET(
		"/subjects/:subject/attestations",
		authorize(authDomain.ReadCapability),
		cfg.AttestationHandler.QueryBySubjectHandler,
	)

	// Client management, admin only.
	protected.POST("/clients", authorize(authDomain.AdminCapability), cfg.ClientHandler.CreateHandler)
	protected.GET("/clients", authorize(authDomain.AdminCapability), cfg.ClientHandler.ListHandler)
	protected.GET("/clients/:id", authorize(authDomain.AdminCapability), cfg.ClientHandler.GetHandler)
	protected.PUT("/clients/:id", authorize(authDomain.AdminCapability), cfg.ClientHandler.UpdateHandler)
	protected.DELETE("/clients/:id", authorize(authDomain.AdminCapability), cfg.ClientHandler.DeleteHandler)
	protected.POST("/clients/:id/unlock", authorize(authDomain.AdminCapability), cfg.ClientHandler.UnlockHandler)

	// Audit trail, admin only.
	protected.GET("/audit-logs", authorize(authDomain.AdminCapability), cfg.AuditLogHandler.ListHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve requests.
// The database is pinged with a short timeout so a wedged connection pool
// turns the instance unready instead of hanging the probe.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed",
			slog.String("component", "database"),
			slog.String("error", err.Error()))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	components["database"] = "ok"
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router is not configured: call SetupRouter before Start")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
