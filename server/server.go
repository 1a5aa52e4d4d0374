package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
	"github.com/ashokvundavalli/AderantDevops-sub005/observability"
	"github.com/ashokvundavalli/AderantDevops-sub005/plan"
	"github.com/ashokvundavalli/AderantDevops-sub005/server/middleware"
	"github.com/ashokvundavalli/AderantDevops-sub005/version"
)

// Planner computes a build plan on demand.
type Planner interface {
	ComputeBuildPlan(ctx context.Context) (*plan.Plan, error)
}

// Server exposes build plans over HTTP.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	planner    Planner
	tracker    *observability.PlanTracker
	service    string
	listener   net.Listener
}

// New creates a Server with the standard middleware and routes registered.
func New(cfg Config, service string, planner Planner, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		engine:  gin.New(),
		config:  cfg,
		log:     log.WithComponent(logger.ComponentServer),
		planner: planner,
		tracker: &observability.PlanTracker{},
		service: service,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.engine,
		ReadTimeout:  seconds(cfg.ReadTimeout),
		WriteTimeout: seconds(cfg.WriteTimeout),
		IdleTimeout:  seconds(cfg.IdleTimeout),
	}

	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.RequestLogger(s.log))

	s.engine.GET("/plan", s.handlePlan)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/version", s.handleVersion)
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Tracker returns the tracker fed by every plan request.
func (s *Server) Tracker() *observability.PlanTracker {
	return s.tracker
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, seconds(s.config.ShutdownTimeout))
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

func (s *Server) handlePlan(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanHTTPRequest, trace.WithAttributes(
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", "/plan"),
		attribute.String("http.request_id", c.GetString(middleware.RequestIDKey)),
	))
	defer span.End()

	bp, err := s.planner.ComputeBuildPlan(ctx)
	if err != nil {
		s.tracker.Observe("", err)
		observability.SetSpanError(ctx, err)
		RespondWithError(c, err)
		return
	}
	s.tracker.Observe(bp.ID, nil)
	RespondOK(c, bp)
}

func (s *Server) handleHealth(c *gin.Context) {
	h := observability.NewServiceHealth(s.service, version.Get().Version)
	h.AddComponent(s.tracker.CheckHealth(c.Request.Context()))

	status := http.StatusOK
	if h.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

func (s *Server) handleVersion(c *gin.Context) {
	RespondOK(c, version.Get())
}
