// Package httpapi exposes the stateless workbook export over HTTP.
package httpapi

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Tiliavir/rileva/internal/log"
	"github.com/Tiliavir/rileva/internal/report"
)

// MaxBodyBytes bounds the snapshot payload.
const MaxBodyBytes = 5 << 20

// Server holds the HTTP dependencies.
type Server struct {
	gin      *gin.Engine
	l        log.Logger
	port     int
	mode     string
	exporter report.Exporter
}

// Config is the dependency bag passed to New.
type Config struct {
	Port     int
	Mode     string
	Exporter report.Exporter
}

// New builds a server with its routes registered.
func New(logger log.Logger, cfg Config) (*Server, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &Server{
		l:        logger,
		gin:      gin.New(),
		port:     cfg.Port,
		mode:     cfg.Mode,
		exporter: cfg.Exporter,
	}
	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()
	return srv, nil
}

func (srv *Server) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port <= 0 {
		return errors.New("port is required")
	}
	if srv.exporter == nil {
		return errors.New("exporter is required")
	}
	return nil
}

// Handler returns the routed engine.
func (srv *Server) Handler() *gin.Engine { return srv.gin }

func (srv *Server) mapHandlers() {
	srv.gin.Use(gin.Recovery(), srv.requestLog)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.POST("/export", srv.export)
	srv.l.Debugf(context.Background(), "routes registered: GET /health, POST /export")
}

func (srv *Server) requestLog(c *gin.Context) {
	c.Next()
	srv.l.Infof(c.Request.Context(), "%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
}
