package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ServerConfig holds the listen address and timeouts for the API server
type ServerConfig struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	// ShutdownGrace bounds how long open display streams get to drain
	ShutdownGrace time.Duration
}

// DefaultServerConfig listens on :8080. There is no write timeout because
// display streams stay open for the life of an overlay.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:              8080,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ShutdownGrace:     15 * time.Second,
	}
}

// Server serves the tournament API until its context is cancelled
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	grace      time.Duration
}

func NewServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
			Handler:           handler,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		logger: logger,
		grace:  config.ShutdownGrace,
	}
}

// Addr is the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run listens on the configured address and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests for up to the shutdown grace period.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("api listening", slog.String("addr", ln.Addr().String()))

	// Long-lived display streams end when shutdown starts instead of holding it open
	base, endStreams := context.WithCancel(context.WithoutCancel(ctx))
	defer endStreams()
	s.httpServer.BaseContext = func(net.Listener) context.Context { return base }
	s.httpServer.RegisterOnShutdown(endStreams)

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve api: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("drain api: %w", err)
	}
	s.logger.Info("api stopped")
	return <-errCh
}
