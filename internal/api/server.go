// Package api wires the HTTP surface: public subscription endpoints and
// the Basic-auth protected publishing endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/idempotency"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Server is the HTTP API server.
type Server struct {
	subscriptions *subscription.Service
	newsletters   *newsletter.Service
	guard         idempotency.Guard
	validator     *auth.Validator

	httpServer *http.Server
}

// NewServer creates an API server listening on addr.
func NewServer(addr string, subs *subscription.Service, news *newsletter.Service, guard idempotency.Guard, validator *auth.Validator) *Server {
	s := &Server{
		subscriptions: subs,
		newsletters:   news,
		guard:         guard,
		validator:     validator,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
