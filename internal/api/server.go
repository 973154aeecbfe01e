// Package api owns the HTTP surface of the gateway: the /mcp endpoint with
// its single-frame SSE responses, the unauthenticated info and health
// endpoints, the telemetry stream and the metrics scrape endpoint.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Kyrnepi/mcp-openshock-server/internal/auth"
	"github.com/Kyrnepi/mcp-openshock-server/internal/rpc"
	"github.com/Kyrnepi/mcp-openshock-server/internal/telemetry"
)

// Server is the gateway HTTP server.
type Server struct {
	httpServer     *http.Server
	dispatcher     *rpc.Dispatcher
	authMiddleware *auth.Middleware
	telemetryHub   *telemetry.Hub
	metricsHandler http.Handler

	serverName    string
	serverVersion string
	startTime     time.Time

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// NewServer creates the API server. The auth middleware is mandatory: /mcp
// and /events are never served unauthenticated.
func NewServer(dispatcher *rpc.Dispatcher, authMiddleware *auth.Middleware, serverName, serverVersion string, readTimeout, writeTimeout, idleTimeout time.Duration) *Server {
	return &Server{
		dispatcher:     dispatcher,
		authMiddleware: authMiddleware,
		serverName:     serverName,
		serverVersion:  serverVersion,
		startTime:      time.Now(),
		readTimeout:    readTimeout,
		writeTimeout:   writeTimeout,
		idleTimeout:    idleTimeout,
	}
}

// SetTelemetryHub wires the /events stream. Optional.
func (s *Server) SetTelemetryHub(hub *telemetry.Hub) {
	s.telemetryHub = hub
}

// SetMetricsHandler wires the /metrics scrape endpoint. Optional.
func (s *Server) SetMetricsHandler(handler http.Handler) {
	s.metricsHandler = handler
}

// RegisterRoutes registers all endpoints on the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.authMiddleware.RequireAuth(s.handleMCP))
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/events", s.authMiddleware.RequireAuth(s.handleEvents))
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}
}

// Start runs the HTTP server until Stop is called.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
