package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/pricedata/internal/ingest"
	"github.com/rickgao/pricedata/internal/model"
	"github.com/rickgao/pricedata/internal/version"
)

// Runner executes one ingestion run. Satisfied by *ingest.Orchestrator.
type Runner interface {
	Run(ctx context.Context, req ingest.Request) (*model.Summary, error)
}

// Pinger reports backend liveness. Satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	engine *gin.Engine
	runner Runner
	pinger Pinger
	logger *slog.Logger
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New wires the router, middleware, and routes. metricsPath may be
// empty to disable the Prometheus endpoint.
func New(runner Runner, pinger Pinger, logger *slog.Logger, metricsPath string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	g := gin.New()
	g.Use(requestLogger(logger))
	g.Use(gin.Recovery())

	s := &Server{
		engine: g,
		runner: runner,
		pinger: pinger,
		logger: logger,
	}

	g.GET("/healthz", s.healthz)
	g.POST("/ingest/run-today", s.runToday)
	g.POST("/ingest/backfill", s.backfill)
	if metricsPath != "" {
		g.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	return s
}

// Handler returns the http.Handler for mounting on an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"latency", time.Since(start),
		)
	}
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.logger.Error("request failed", "where", where, "error", err)
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: err.Error()})
}

func (s *Server) healthz(c *gin.Context) {
	if s.pinger != nil {
		if err := s.pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "version": version.String()})
}

func (s *Server) runToday(c *gin.Context) {
	req := ingest.Request{Universe: strings.TrimSpace(c.Query("universe"))}

	summary, err := s.runner.Run(c.Request.Context(), req)
	if err != nil {
		s.internalError(c, "run-today", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) backfill(c *gin.Context) {
	startRaw := strings.TrimSpace(c.Query("start"))
	if startRaw == "" {
		s.badRequest(c, "start is required (YYYY-MM-DD)")
		return
	}
	start, err := model.ParseDate(startRaw)
	if err != nil {
		s.badRequest(c, "invalid start: "+startRaw)
		return
	}

	var end time.Time
	if endRaw := strings.TrimSpace(c.Query("end")); endRaw != "" {
		end, err = model.ParseDate(endRaw)
		if err != nil {
			s.badRequest(c, "invalid end: "+endRaw)
			return
		}
		if end.Before(start) {
			s.badRequest(c, "end precedes start")
			return
		}
	}

	req := ingest.Request{
		Universe: strings.TrimSpace(c.Query("universe")),
		Backfill: true,
		Start:    start,
		End:      end,
	}

	summary, err := s.runner.Run(c.Request.Context(), req)
	if err != nil {
		s.internalError(c, "backfill", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
