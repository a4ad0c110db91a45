package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"f0oster/regwatch/document"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/versioning"
)

// Reporter is the query surface of the versioning service.
type Reporter interface {
	GetChangeHistory(limit int) []versioning.ChangeRecord
	GetHistoricalData(ctx context.Context, filter document.Filter) ([]document.Version, error)
	GenerateReport(ctx context.Context, sourceID string) versioning.Report
}

// Trigger runs a sync cycle on demand.
type Trigger interface {
	RunOnce(ctx context.Context) (*versioning.CycleResult, error)
}

// Server handles HTTP requests for the reporting API.
type Server struct {
	reporter Reporter
	trigger  Trigger
	log      *logging.Logger
	engine   *gin.Engine
	addr     string
	http     *http.Server
}

// NewServer creates a new web server instance. trigger may be nil, in which
// case the sync endpoint is not registered.
func NewServer(reporter Reporter, trigger Trigger, log *logging.Logger, addr string) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		reporter: reporter,
		trigger:  trigger,
		log:      log.With("component", "WebServer"),
		engine:   engine,
		addr:     addr,
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.GET("/changes", s.handleListChanges)
	api.GET("/documents", s.handleListDocuments)
	api.GET("/report", s.handleReport)
	if s.trigger != nil {
		api.POST("/sync", s.handleSync)
	}

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Start begins listening for HTTP requests and blocks until the server stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("starting web server", "addr", s.addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Handler returns the HTTP handler for use with custom servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}
