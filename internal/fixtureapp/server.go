package fixtureapp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/todo-e2e/internal/common"
)

// Server serves the fixture page over HTTP.
type Server struct {
	logger   arbor.ILogger
	assets   map[string]Asset
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// Config controls how the fixture page is served.
type Config struct {
	// Addr is the listen address; ":0" or "" picks a free port on localhost
	Addr string
	// Raw serves the embedded files without minification
	Raw bool
}

// Start listens on cfg.Addr and serves the page in the background until Close.
func Start(cfg Config, logger arbor.ILogger) (*Server, error) {
	if logger == nil {
		logger = arbor.NewLogger()
	}

	assets, err := LoadAssets(!cfg.Raw)
	if err != nil {
		return nil, err
	}

	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		logger:   logger,
		assets:   assets,
		listener: listener,
		done:     make(chan struct{}),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	common.SafeGo(logger, "fixtureapp-server", func() {
		defer close(s.done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Fixture server stopped")
		}
	})

	logger.Info().Str("url", s.URL()).Msg("Fixture app serving")
	return s, nil
}

// Handler returns the HTTP handler serving the embedded page.
func (s *Server) Handler() http.Handler {
	return NewHandler(s.assets, s.logger)
}

// NewHandler serves assets by name; "/" serves index.html.
func NewHandler(assets map[string]Asset, logger arbor.ILogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" {
			name = "index.html"
		}

		asset, ok := assets[name]
		if !ok {
			http.NotFound(w, r)
			return
		}

		logger.Debug().Str("path", r.URL.Path).Msg("Serving fixture asset")
		w.Header().Set("Content-Type", asset.ContentType)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(asset.Body)
		}
	})
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// URL returns the entry URL with the "all" filter selected.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s/#/", s.Addr())
}

// Close shuts the server down and waits for the serve loop to exit.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	<-s.done
	return err
}
