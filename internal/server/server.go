// Package server exposes the tool dispatcher over MCP, on stdio or on a
// streamable HTTP endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panuhen/spotify-mcp/internal/tools"
)

const (
	// Name is the implementation name reported to MCP clients.
	Name = "spotify-mcp"

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = "127.0.0.1:8765"

	shutdownTimeout = 10 * time.Second
)

// Config holds server configuration.
type Config struct {
	Version string
	Addr    string
	Logger  *log.Logger
}

// Server serves the tool catalog to MCP clients.
type Server struct {
	mcp        *mcp.Server
	dispatcher *tools.Dispatcher
	router     chi.Router
	addr       string
	logger     *log.Logger
}

// New creates a server advertising every tool known to d.
func New(d *tools.Dispatcher, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		mcp:        mcp.NewServer(&mcp.Implementation{Name: Name, Version: cfg.Version}, nil),
		dispatcher: d,
		router:     chi.NewRouter(),
		addr:       cfg.Addr,
		logger:     cfg.Logger,
	}

	s.registerTools()
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// registerTools adds one MCP tool per catalog entry. Every result, errors
// included, is a single text block holding the JSON object.
func (s *Server) registerTools() {
	for _, t := range s.dispatcher.Tools() {
		name := t.Name
		s.mcp.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			text := s.dispatcher.CallText(ctx, name, req.Params.Arguments)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
			}, nil
		})
	}
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures routes for the HTTP transport.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.health)

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
	s.router.Handle("/mcp", streamable)
}

// Handler returns the HTTP handler for the streamable transport.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"tools":  len(s.dispatcher.Tools()),
	})
}

// requestLogger logs each HTTP request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ServeStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", "tools", len(s.dispatcher.Tools()))
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// ServeHTTP listens on the configured address and shuts down gracefully
// when ctx is done.
func (s *Server) ServeHTTP(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving MCP over HTTP", "url", "http://"+listener.Addr().String()+"/mcp")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
