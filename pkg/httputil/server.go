package httputil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ourohead/ourohead/pkg/logging"
)

// Server runs an http.Server in the background with graceful shutdown.
type Server struct {
	name         string
	addr         string
	handler      http.Handler
	readTimeout  time.Duration
	writeTimeout time.Duration
	log          *slog.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	running  bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the operational logger.
func WithServerLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTimeouts sets the read and write timeouts.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// NewServer creates a stopped server. name labels its log lines.
func NewServer(name, addr string, handler http.Handler, opts ...ServerOption) *Server {
	s := &Server{
		name:         name,
		addr:         addr,
		handler:      handler,
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
		log:          logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the address and serves in a background goroutine.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("%s server is already running", s.name)
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	s.log.Info("starting HTTP server", "server", s.name, "addr", ln.Addr().String())
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "server", s.name, "error", err)
		}
	}(s.srv)

	s.running = true
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	s.listener = nil
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", s.name, err)
	}
	s.log.Info("HTTP server stopped", "server", s.name)
	return nil
}
