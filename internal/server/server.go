// Package server implements the dashboard HTTP server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/config"
	"github.com/wesleyorama2/picarx-dash/internal/metrics"
	"github.com/wesleyorama2/picarx-dash/internal/store"
)

// Readings is the part of store.Store the server reads from.
type Readings interface {
	Readings(ctx context.Context, q store.Query) ([]store.Reading, error)
}

// Feeds is the Adafruit IO client used by the server.
type Feeds interface {
	LastPoints(ctx context.Context, feed string, limit int) ([]string, []*float64, error)
	LastValue(ctx context.Context, feed string) (string, error)
	Send(ctx context.Context, feed, value string) error
}

// Opts represents server options.
type Opts struct {
	Config   *config.Config
	Readings Readings
	Feeds    Feeds
	Logger   *zap.Logger

	// Registry collects the server metrics; a new one is created if nil.
	Registry *prometheus.Registry

	// Now returns the current time; time.Now if nil.
	Now func() time.Time
}

// Server serves the dashboard pages and APIs.
type Server struct {
	cfg      *config.Config
	readings Readings
	feeds    Feeds
	l        *zap.Logger
	reg      *prometheus.Registry
	recorder *metrics.Recorder
	pages    *template.Template
	router   *gin.Engine
	now      func() time.Time
}

// New creates a new server.
func New(opts *Opts) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Readings == nil {
		return nil, errors.New("readings store is required")
	}
	if opts.Feeds == nil {
		return nil, errors.New("feeds client is required")
	}

	pages, err := template.New("pages").Funcs(template.FuncMap{
		"json": toJSON,
	}).Parse(pagesTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	s := &Server{
		cfg:      opts.Config,
		readings: opts.Readings,
		feeds:    opts.Feeds,
		l:        opts.Logger,
		reg:      opts.Registry,
		pages:    pages,
		now:      opts.Now,
	}

	if s.l == nil {
		s.l = zap.NewNop()
	}
	if s.reg == nil {
		s.reg = prometheus.NewRegistry()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.recorder = metrics.NewRecorder(s.reg)

	s.router, err = s.routes()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout.GetDuration(10 * time.Second),
		ReadTimeout:       s.cfg.Server.ReadTimeout.GetDuration(10 * time.Second),
	}

	errCh := make(chan error, 1)
	go func() {
		s.l.Info("Listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.l.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout.GetDuration(5*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) routes() (*gin.Engine, error) {
	r := gin.New()
	r.Use(requestID(), s.observe(), gin.Recovery())

	r.GET("/", s.home)
	r.GET("/about", s.about)
	r.GET("/sensor-data", s.sensorData)
	r.GET("/ultrasonic", s.ultrasonicChart)
	r.GET("/grayscale", s.grayscaleChart)

	r.GET("/control", s.feedPage("control_motors", "Motors", func(f config.FeedsConfig) string { return f.Command }))
	r.GET("/steering", s.feedPage("steering", "Steering", func(f config.FeedsConfig) string { return f.Steering }))
	r.GET("/camera-control", s.feedPage("camera", "Camera", func(f config.FeedsConfig) string { return f.Camera }))

	r.GET("/tts-control", s.ttsControl)
	r.POST("/tts-control", s.ttsControl)
	r.GET("/line-tracking", s.modeControl("line_tracking", "Line tracking", func(f config.FeedsConfig) string { return f.Line }))
	r.POST("/line-tracking", s.modeControl("line_tracking", "Line tracking", func(f config.FeedsConfig) string { return f.Line }))
	r.GET("/obstacle-avoidance", s.modeControl("obstacle", "Obstacle avoidance", func(f config.FeedsConfig) string { return f.Obstacle }))
	r.POST("/obstacle-avoidance", s.modeControl("obstacle", "Obstacle avoidance", func(f config.FeedsConfig) string { return f.Obstacle }))

	api := r.Group("/api")
	api.GET("/live", s.apiLive)
	api.GET("/stats", s.apiStats)
	api.POST("/control", s.command(commandRoute{
		field:   "direction",
		allowed: []string{"forward", "backward", "stop"},
		invalid: "invalid direction",
		feed:    func(f config.FeedsConfig) string { return f.Command },
	}))
	api.POST("/steering", s.command(commandRoute{
		field:   "direction",
		allowed: []string{"left", "right", "center"},
		invalid: "invalid steering direction",
		feed:    func(f config.FeedsConfig) string { return f.Steering },
	}))
	api.POST("/camera", s.command(commandRoute{
		field:   "command",
		allowed: []string{"pan_left", "pan_right", "pan_center", "tilt_up", "tilt_down", "tilt_center"},
		invalid: "invalid camera command",
		feed:    func(f config.FeedsConfig) string { return f.Camera },
	}))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.cfg.Server.Debug {
		mux := http.NewServeMux()
		if err := statsviz.Register(mux, statsviz.Root("/debug/graphs")); err != nil {
			return nil, fmt.Errorf("failed to register debug graphs: %w", err)
		}
		r.GET("/debug/graphs/*path", gin.WrapH(mux))
	}

	return r, nil
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
