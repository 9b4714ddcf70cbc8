package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/crimson-sun/healthrisk/internal/artifact"
	"github.com/crimson-sun/healthrisk/internal/model"
)

// Engine is what the server needs from the active inference engine.
type Engine interface {
	Predict(raw map[string]any) (model.PredictionResult, error)
	Summary() (artifact.Summary, bool)
}

// Options configures a Server.
type Options struct {
	CORSOrigins []string
	// BodyLimit caps request bodies, in echo's size syntax. Default "1M".
	BodyLimit string
	// Registry collects the service metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server is the HTTP transport for the inference engine.
type Server struct {
	echo    *echo.Echo
	engine  Engine
	log     zerolog.Logger
	metrics *Metrics
}

// New wires routes and middleware around eng.
func New(eng Engine, logger zerolog.Logger, opts Options) *Server {
	if opts.BodyLimit == "" {
		opts.BodyLimit = "1M"
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		engine:  eng,
		log:     logger,
		metrics: NewMetrics(reg),
	}

	e.Use(Recovery(logger))
	e.Use(RequestID())
	e.Use(Logger(logger))
	e.Use(echomw.BodyLimit(opts.BodyLimit))
	if len(opts.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, headerRequestID},
		}))
	}

	e.POST("/predict_health", s.handlePredict)
	e.GET("/healthz", s.handleHealth)
	e.GET("/artifacts", s.handleArtifacts)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Metrics returns the server's collectors, for recording reloads.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start listens on addr and blocks until the server stops. A clean
// shutdown returns nil.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
