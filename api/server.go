package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/paw-chain/swapcore/app"
)

// Server is the read-only REST server over the node state
type Server struct {
	router  *gin.Engine
	handler http.Handler
	node    *app.App
	config  Config
	logger  log.Logger
	limiter *IPRateLimiter
}

// Config holds server configuration
type Config struct {
	Address         string
	CORSOrigins     []string
	RateLimitRPS    int
	// RateLimitTTL is how long an idle client IP keeps its bucket.
	RateLimitTTL    time.Duration
	CleanupInterval time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return ConfigFromApp(app.DefaultConfig().API)
}

// ConfigFromApp builds the server configuration from the node's [api] section.
func ConfigFromApp(cfg app.APIConfig) Config {
	return Config{
		Address:         cfg.Address,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitTTL:    defaultLimiterTTL,
		CleanupInterval: defaultCleanupInterval,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a new API server instance
func NewServer(logger log.Logger, node *app.App, config Config) *Server {
	s := &Server{
		node:   node,
		config: config,
		logger: logger.With("module", "api"),
	}
	s.setupRouter()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Requested-With", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	}).Handler(s.router)

	return s
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Recovery must run first to catch panics from everything after it.
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.config.RateLimitRPS > 0 {
		s.limiter = NewIPRateLimiter(s.config.RateLimitRPS, s.config.RateLimitTTL)
		s.router.Use(s.limiter.Middleware())
	}

	s.router.GET("/health", s.healthCheck)
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Route not found", Code: "NOT_FOUND"})
	})

	s.registerRoutes()
}

// Handler returns the HTTP handler including CORS.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) healthCheck(c *gin.Context) {
	header := s.node.Header()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"height":    header.Height,
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.limiter != nil && s.config.CleanupInterval > 0 {
		go s.limiter.Run(ctx, s.config.CleanupInterval)
	}

	srv := &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("API server stopped")
	return nil
}
