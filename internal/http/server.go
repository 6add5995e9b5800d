// Package http provides the API server, its router, and request middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
	authHTTP "github.com/allisson/tablegate/internal/auth/http"
	authUseCase "github.com/allisson/tablegate/internal/auth/usecase"
	entityHTTP "github.com/allisson/tablegate/internal/entity/http"
	"github.com/allisson/tablegate/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new API server. The database connection is used only by
// the readiness probe; the router is built separately with SetupRouter.
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

// Handlers bundles the request handlers wired into the router.
type Handlers struct {
	Token   *authHTTP.TokenHandler
	Query   *entityHTTP.QueryHandler
	Entry   *entityHTTP.EntryHandler
	Publish *entityHTTP.PublishHandler
}

// RouterConfig holds everything SetupRouter needs to assemble the route table.
type RouterConfig struct {
	AuthUseCase authUseCase.AuthUseCase
	Handlers    Handlers

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	RateLimitTokenEnabled        bool
	RateLimitTokenRequestsPerSec float64
	RateLimitTokenBurst          int

	// MeterProvider enables per-route HTTP metrics when non-nil.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// SetupRouter builds the Gin router and installs it as the server handler.
//
// The route table doubles as the capability requirement table: every protected
// route names exactly one required capability.
//
//	POST /v1/token    (none, this is the login endpoint)
//	POST /v1/query    read
//	POST /v1/get      read
//	POST /v1/upload   write
//	POST /v1/publish  write
//	POST /v1/delete   delete
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

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	// Health endpoints, no authentication
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Login endpoint, rate limited by client IP to slow credential stuffing
	tokenRoute := router.Group("/v1")
	if cfg.RateLimitTokenEnabled {
		tokenRoute.Use(authHTTP.TokenRateLimitMiddleware(
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			s.logger,
		))
	}
	tokenRoute.POST("/token", cfg.Handlers.Token.LoginHandler)

	// Protected endpoints, authenticated principal required
	protected := router.Group("/v1")
	protected.Use(authHTTP.AuthenticationMiddleware(cfg.AuthUseCase, s.logger))
	if cfg.RateLimitEnabled {
		protected.Use(authHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}

	protected.POST("/query",
		authHTTP.AuthorizationMiddleware(authDomain.ReadCapability, s.logger),
		cfg.Handlers.Query.QueryHandler,
	)
	protected.POST("/get",
		authHTTP.AuthorizationMiddleware(authDomain.ReadCapability, s.logger),
		cfg.Handlers.Entry.GetHandler,
	)
	protected.POST("/upload",
		authHTTP.AuthorizationMiddleware(authDomain.WriteCapability, s.logger),
		cfg.Handlers.Publish.UploadHandler,
	)
	protected.POST("/publish",
		authHTTP.AuthorizationMiddleware(authDomain.WriteCapability, s.logger),
		cfg.Handlers.Publish.PublishHandler,
	)
	protected.POST("/delete",
		authHTTP.AuthorizationMiddleware(authDomain.DeleteCapability, s.logger),
		cfg.Handlers.Entry.DeleteHandler,
	)

	s.router = router
	s.server.Handler = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can do useful work. It pings the
// credential database since every protected request resolves a principal there.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured, call SetupRouter first")
	}

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
