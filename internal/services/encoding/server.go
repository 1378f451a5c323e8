// Package encoding hosts the browser-facing encoding task service.
package encoding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/encodingtask/internal/platform/timeouts"
	"github.com/louisbranch/encodingtask/internal/services/encoding/app"
	module "github.com/louisbranch/encodingtask/internal/services/encoding/module"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/observability"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
	"github.com/louisbranch/encodingtask/internal/services/encoding/static"
	"golang.org/x/text/language"
)

// Config defines startup inputs for the encoding service.
type Config struct {
	HTTPAddr string
	// GRPCAddr enables the gRPC health listener when set.
	GRPCAddr        string
	Sessions        module.Sessions
	DefaultLanguage language.Tag
	MaxAudioBytes   int64
}

// Server hosts the encoding HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	health     *healthServer
}

// NewHandler builds the root handler from the default modules.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("sessions are required")
	}
	deps := module.Dependencies{
		Sessions:        cfg.Sessions,
		DefaultLanguage: cfg.DefaultLanguage,
		MaxAudioBytes:   cfg.MaxAudioBytes,
	}
	h, err := app.Compose(app.ComposeInput{
		Dependencies: deps,
		Modules:      app.DefaultModules(),
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	rootMux.Handle(routepath.Root, h)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(log.Default()),
	), nil
}

// NewServer validates config and constructs an encoding server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose encoding handler: %w", err)
	}
	server := &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ReadTimeout:       timeouts.Read,
			IdleTimeout:       timeouts.Idle,
		},
	}
	if grpcAddr := strings.TrimSpace(cfg.GRPCAddr); grpcAddr != "" {
		health, err := newHealthServer(grpcAddr)
		if err != nil {
			return nil, err
		}
		server.health = health
	}
	return server, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("encoding server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 2)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	if s.health != nil {
		log.Printf("grpc health listening addr=%s", s.health.Addr())
		go func() {
			if err := s.health.Serve(); err != nil {
				serveErr <- fmt.Errorf("grpc health: %w", err)
			}
		}()
	}
	log.Printf("http listening addr=%s", s.httpAddr)

	select {
	case <-ctx.Done():
		s.health.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown encoding http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		s.health.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve encoding http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.health.Close()
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
}
