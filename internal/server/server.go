// Package server exposes the gateway over HTTP: the /translate endpoint the
// MORT client calls, plus /health and /config for operators.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valpere/mortgate/internal/router"
	"github.com/valpere/mortgate/internal/store"
)

// Options holds the server's collaborators. Store and Logger may be nil.
type Options struct {
	Router     *router.Router
	Store      *store.Store
	Logger     *log.Logger
	ControlLog bool
}

// Server is the HTTP front of the gateway.
type Server struct {
	router     *router.Router
	store      *store.Store
	logger     *log.Logger
	controlLog bool
}

// New builds a Server around a routing core.
func New(opts Options) *Server {
	return &Server{
		router:     opts.Router,
		store:      opts.Store,
		logger:     opts.Logger,
		controlLog: opts.ControlLog,
	}
}

// Handler assembles the gin engine with all routes registered. Exposed
// separately from Start so tests can drive it with httptest.
func (s *Server) Handler() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.POST("/translate", s.handleTranslate)
	engine.GET("/health", s.handleHealth)
	engine.GET("/config", s.handleConfig)

	return engine
}

// Start runs the HTTP server on host:port. It blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	s.logf("translation gateway listening on %s (mode: %s)", srv.Addr, s.router.Mode())

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (s *Server) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func (s *Server) controlLogf(format string, args ...any) {
	if !s.controlLog {
		return
	}
	s.logf(format, args...)
}
