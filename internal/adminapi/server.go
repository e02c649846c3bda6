// Package adminapi serves the configuration panel: an HTTP API for reading
// and editing display settings while the signage is running.
package adminapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/models"
	"go.uber.org/zap"
)

// DefaultAddr is used when no listen address is configured
const DefaultAddr = "127.0.0.1:8080"

// StateSource reports carousel state
type StateSource interface {
	Snapshot() carousel.Snapshot
}

// Enricher fills records from their page metadata
type Enricher interface {
	News(ctx context.Context, item models.NewsItem) models.NewsItem
	Internal(ctx context.Context, panel models.InternalPanel) models.InternalPanel
}

// Server provides the admin HTTP API
type Server struct {
	addr      string
	settings  SettingsManager
	state     StateSource
	enricher  Enricher
	metrics   http.Handler
	logger    *zap.Logger
	now       func() time.Time
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// Option configures a Server
type Option func(*Server)

// WithEnricher enables the enrich endpoint
func WithEnricher(e Enricher) Option {
	return func(s *Server) { s.enricher = e }
}

// WithMetrics mounts h at /metrics
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the server logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new admin API server
func NewServer(addr string, manager SettingsManager, state StateSource, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:      addr,
		settings:  manager,
		state:     state,
		logger:    zap.NewNop(),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin router
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/state", s.handleState)

	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handlePutSettings)
	api.POST("/settings/reset", s.handleResetSettings)

	api.POST("/cards/:kind", s.handleAddCard)
	api.DELETE("/cards/:kind/:id", s.handleDeleteCard)
	api.POST("/cards/:kind/:id/enrich", s.handleEnrichCard)

	api.POST("/overlays", s.handleAddOverlay)
	api.DELETE("/overlays/:id", s.handleDeleteOverlay)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}
	return r
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.logger.Info("admin API listening", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("admin API stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
