// Package server runs the reference language service over its transports:
// LSP on stdio, LSP on WebSocket, and MCP tools on stdio.
package server

import (
	"context"
	"sync/atomic"

	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/lsp"
	"github.com/fujidana/specref/registry"
)

// Server owns the shared language service. Each connected client gets its
// own lsp.Handler; the registry and completion cache are shared.
type Server struct {
	reg     *registry.Registry
	service *lsp.Service
	cfg     *am.Config
	logger  *zap.SugaredLogger
	clients atomic.Int32
	debug   bool
}

// New creates a server over reg. cfg supplies the WebSocket origin list.
func New(reg *registry.Registry, cfg *am.Config, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg == nil {
		cfg = &am.Config{}
	}
	return &Server{
		reg:     reg,
		service: lsp.NewService(reg, log.Named("lsp")),
		cfg:     cfg,
		logger:  log,
	}
}

// SetDebug turns on glsp's protocol tracing
func (s *Server) SetDebug(debug bool) {
	s.debug = debug
}

// Service returns the shared language service
func (s *Server) Service() *lsp.Service {
	return s.service
}

// Close detaches the service from the registry
func (s *Server) Close() {
	s.service.Close()
}

// RunStdio serves one LSP session on stdin/stdout until the client exits.
// Logs must not go to stdout while this runs.
func (s *Server) RunStdio() error {
	ctx := logger.WithComponent(logger.WithSession(context.Background(), "stdio"), "lsp-stdio")
	handler := lsp.NewHandler(s.service, logger.LoggerFromContext(ctx, s.logger))
	glspServer := glspserver.NewServer(handler.Protocol(), lsp.ServerName, s.debug)

	s.logger.Infow("Serving LSP over stdio")
	if err := glspServer.RunStdio(); err != nil {
		return errors.Wrap(err, "LSP stdio session failed")
	}
	return nil
}
