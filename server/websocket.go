package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/lsp"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/version"
)

// ShutdownTimeout bounds how long open sessions get to finish on shutdown
const ShutdownTimeout = 5 * time.Second

// checkOrigin allows requests without an Origin header (editor clients,
// tests) and browser origins that start with a configured prefix. With no
// origins configured only localhost is allowed.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	allowed := s.cfg.Server.AllowedOrigins
	if len(allowed) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost")
	}

	// Prefix matching so any port is accepted
	for _, prefix := range allowed {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// Routes returns the HTTP handler: /lsp upgrades to an LSP session and
// /health reports status.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/lsp", s.HandleLSPWebSocket)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// HandleLSPWebSocket upgrades HTTP to WebSocket and serves one LSP session
func (s *Server) HandleLSPWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithComponent(logger.WithSession(r.Context(), uuid.New().String()), "lsp-ws")
	log := logger.LoggerFromContext(ctx, s.logger)
	log.Infow("LSP WebSocket connection request", "remote", r.RemoteAddr)

	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorw("Failed to upgrade WebSocket", logger.FieldError, err)
		return
	}

	handler := lsp.NewHandler(s.service, log)
	glspServer := glspserver.NewServer(handler.Protocol(), lsp.ServerName, s.debug)

	s.clients.Add(1)
	defer s.clients.Add(-1)

	// Blocks until the connection closes
	glspServer.ServeWebSocket(conn)

	log.Infow("LSP WebSocket connection closed", "remote", r.RemoteAddr)
}

// HandleHealth reports version, client count and built-in load state
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	versionInfo := version.Get()
	store := s.reg.Store()
	_, builtinLoaded := store.Partition(ref.SourceBuiltin)

	health := map[string]interface{}{
		"status":         "ok",
		"version":        versionInfo.Version,
		"commit":         versionInfo.CommitHash,
		"clients":        int(s.clients.Load()),
		"builtin_loaded": builtinLoaded,
		"sources":        store.Sources(),
	}
	if updated := store.LastUpdate(); !updated.IsZero() {
		health["updated_at"] = updated.UTC().Format(time.RFC3339Nano)
	}
	if err := writeJSON(w, http.StatusOK, health); err != nil {
		s.logger.Warnw("Failed to write health response", logger.FieldError, err)
	}
}

// ListenAndServe serves Routes on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "failed to listen on %s", addr),
			"choose another address with --ws or server.websocket_addr",
		)
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Serving LSP over WebSocket",
			logger.FieldAddress, listener.Addr().String())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "WebSocket server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.logger.Infow("Shutting down WebSocket server", "timeout", ShutdownTimeout)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "WebSocket server shutdown")
	}
	return nil
}
