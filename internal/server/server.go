// Package server exposes the per-user progress document over an
// authenticated JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/store"
)

// Options are the collaborators a Server is built from. Cache and Ping are
// optional.
type Options struct {
	Users    store.UserRepo
	Flags    store.FlagRepo
	Events   store.EventRepo
	Verifier TokenVerifier
	Cache    SnapshotCache
	Ping     func(ctx context.Context) error
	Log      *logger.Logger

	AllowedOrigins []string
}

// Server is the progress HTTP service.
type Server struct {
	opts    Options
	log     *logger.Logger
	metrics *metrics
	engine  *gin.Engine

	// uids whose cache invalidation failed
	stale sync.Map
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Users == nil || opts.Flags == nil || opts.Events == nil {
		return nil, errors.New("server: repositories are required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("server: token verifier is required")
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		opts:    opts,
		log:     log.With("component", "server"),
		metrics: newMetrics(),
		engine:  gin.New(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), requestID(), s.metrics.middleware(), requestLogger(s.log), corsMiddleware(s.opts.AllowedOrigins))

	api := r.Group("/api/v1")
	api.GET("/healthz", s.healthz)
	api.GET("/metrics", gin.WrapH(s.metrics.handler()))

	authed := api.Group("", requireAuth(s.opts.Verifier))
	authed.POST("/users", s.ensureUser)
	authed.GET("/users/me", s.currentUser)
	authed.POST("/progress/lessons", s.setLessonFlag)
	authed.GET("/progress", s.progress)
	authed.GET("/progress/events", s.events)
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
