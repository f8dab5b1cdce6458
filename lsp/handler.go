package lsp

import (
	"context"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/internal/util"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/manual"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/registry"
	"github.com/fujidana/specref/sym"
	"github.com/fujidana/specref/version"
)

// ServerName is reported to clients in the initialize result
const ServerName = "spec Reference Language Server"

const (
	// maxDocumentsPerClient caps the open-document cache of one session
	maxDocumentsPerClient = 100

	// commandTimeout bounds a single command, including the built-in wait
	commandTimeout = 10 * time.Second
)

// Commands handled by workspace/executeCommand
const (
	CommandOpenReferenceManual   = "spec-command.openReferenceManual"
	CommandRenderReferenceManual = "spec-command.renderReferenceManual"
	CommandListReferenceKinds    = "spec-command.listReferenceKinds"
)

const methodShowMessage = "window/showMessage"

// ManualResult is returned by the reference manual commands
type ManualResult struct {
	URI      string `json:"uri"`
	Markdown string `json:"markdown"`
	Preview  bool   `json:"preview"`
}

// Handler implements the LSP methods of one client session on top of a
// shared Service.
type Handler struct {
	service   *Service
	log       *zap.SugaredLogger
	documents map[string]string // URI → text
	mu        sync.RWMutex
}

// NewHandler creates a session handler. log is expected to carry the
// session id already.
func NewHandler(service *Service, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{
		service:   service,
		log:       log,
		documents: make(map[string]string),
	}
}

// Protocol wires the handler's methods into a glsp protocol handler
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                      h.Initialize,
		Initialized:                     h.Initialized,
		Shutdown:                        h.Shutdown,
		TextDocumentDidOpen:             h.TextDocumentDidOpen,
		TextDocumentDidChange:           h.TextDocumentDidChange,
		TextDocumentDidClose:            h.TextDocumentDidClose,
		TextDocumentCompletion:          h.TextDocumentCompletion,
		TextDocumentHover:               h.TextDocumentHover,
		WorkspaceSymbol:                 h.WorkspaceSymbol,
		WorkspaceExecuteCommand:         h.WorkspaceExecuteCommand,
		WorkspaceDidChangeConfiguration: h.WorkspaceDidChangeConfiguration,
	}
}

// Initialize handles LSP initialize request
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Infow("LSP client initializing",
		"client", params.ClientInfo,
		"capabilities", "completion, hover, workspaceSymbol, executeCommand",
	)

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{},
		HoverProvider:      &protocol.HoverOptions{},
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: util.Ptr(true),
			Change:    &syncKind,
		},
		WorkspaceSymbolProvider: true,
		ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
			Commands: []string{
				CommandOpenReferenceManual,
				CommandRenderReferenceManual,
				CommandListReferenceKinds,
			},
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: util.Ptr(version.Get().Version),
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Infow("LSP client initialized successfully")
	return nil
}

// Shutdown handles LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Infow("LSP client shutting down")
	return nil
}

// TextDocumentDidOpen handles document open notifications
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := string(params.TextDocument.URI)

	if _, exists := h.documents[uri]; !exists && len(h.documents) >= maxDocumentsPerClient {
		h.log.Warnw("Document cache limit reached, rejecting new document",
			logger.FieldURI, uri,
			"current_count", len(h.documents),
			"max_allowed", maxDocumentsPerClient,
		)
		return errors.Newf("document cache limit reached (%d documents open)", maxDocumentsPerClient)
	}

	h.documents[uri] = params.TextDocument.Text
	h.log.Debugw("Document opened",
		logger.FieldURI, uri,
		"length", len(params.TextDocument.Text),
		"total_documents", len(h.documents),
	)
	return nil
}

// TextDocumentDidChange handles document change notifications
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := string(params.TextDocument.URI)

	// Full document sync: the last whole-text change wins
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			h.documents[uri] = whole.Text
		}
	}

	h.log.Debugw("Document changed", logger.FieldURI, uri, "changes", len(params.ContentChanges))
	return nil
}

// TextDocumentDidClose handles document close notifications
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := string(params.TextDocument.URI)
	delete(h.documents, uri)
	h.log.Debugw("Document closed", logger.FieldURI, uri)
	return nil
}

// TextDocumentCompletion returns the cached items of every source
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorw("Panic in completion handler",
				"panic", r,
				logger.FieldURI, params.TextDocument.URI,
			)
			result = []protocol.CompletionItem{}
			err = nil
		}
	}()

	items := h.service.Completion()
	h.log.Debugw("LSP completion result",
		logger.FieldURI, params.TextDocument.URI,
		logger.FieldCount, len(items))
	return items, nil
}

// TextDocumentHover documents the identifier under the cursor
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorw("Panic in hover handler",
				"panic", r,
				logger.FieldURI, params.TextDocument.URI,
			)
			result = nil
			err = nil
		}
	}()

	h.mu.RLock()
	text, ok := h.documents[string(params.TextDocument.URI)]
	h.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	word := WordAt(text, int(params.Position.Line), int(params.Position.Character))
	markdown, found := h.service.Hover(word)
	if !found {
		return nil, nil
	}

	h.log.Debugw("LSP hover result", logger.FieldName, word)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: markdown,
		},
	}, nil
}

// WorkspaceSymbol lists located entries matching the query
func (h *Handler) WorkspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	symbols := h.service.WorkspaceSymbols(params.Query)
	h.log.Debugw("LSP workspace symbols", "query", params.Query, logger.FieldCount, len(symbols))
	return symbols, nil
}

// WorkspaceDidChangeConfiguration applies the client's spec-command settings
func (h *Handler) WorkspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	settings, found := parseSettings(params.Settings)
	if !found {
		h.log.Debugw("Configuration change without spec-command settings")
		return nil
	}

	h.log.Infow("Client configuration changed", logger.FieldSymbol, sym.Config)
	if err := h.service.Registry().ApplyClientSettings(settings); err != nil {
		h.log.Warnw("Failed to apply client configuration", logger.FieldError, err)
	}
	return nil
}

// WorkspaceExecuteCommand dispatches the reference manual commands
func (h *Handler) WorkspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorw("Panic in command handler", "panic", r, logger.FieldCommand, params.Command)
			result = nil
			err = errors.Newf("command %s failed", params.Command)
		}
	}()

	cctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	h.log.Infow("LSP command", logger.FieldCommand, params.Command)

	switch params.Command {
	case CommandOpenReferenceManual:
		label := stringArg(params.Arguments, 0)
		res, err := h.openReferenceManual(cctx, label)
		return h.commandResult(ctx, params.Command, res, err)
	case CommandRenderReferenceManual:
		uri := stringArg(params.Arguments, 0)
		res, err := h.renderReferenceManual(cctx, uri)
		return h.commandResult(ctx, params.Command, res, err)
	case CommandListReferenceKinds:
		res, err := h.listReferenceKinds(cctx)
		return h.commandResult(ctx, params.Command, res, err)
	}
	return nil, errors.NewInvalidRequestError("unknown command %q", params.Command)
}

// commandResult turns a built-in wait timeout into a window/showMessage
// error and an empty result; other errors go back to the client as is.
func (h *Handler) commandResult(ctx *glsp.Context, command string, res any, err error) (any, error) {
	if err == nil {
		return res, nil
	}
	if errors.IsTimeout(err) {
		h.log.Warnw("Built-in database not loaded", logger.FieldCommand, command, logger.FieldError, err)
		h.showError(ctx, registry.TimeoutMessage)
		return nil, nil
	}
	h.log.Errorw("Command failed", logger.FieldCommand, command, logger.FieldError, err)
	return nil, err
}

func (h *Handler) showError(ctx *glsp.Context, message string) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(methodShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	})
}

func (h *Handler) openReferenceManual(ctx context.Context, label string) (*ManualResult, error) {
	if label == "" {
		label = sym.AllLabel
	}
	if label != sym.AllLabel {
		if _, ok := ref.ParseKindLabel(label); !ok {
			return nil, errors.NewInvalidRequestError("unknown reference kind %q", label)
		}
	}

	reg := h.service.Registry()
	if _, err := reg.WaitBuiltin(ctx, registry.RetryPolicyFor(reg.Config())); err != nil {
		return nil, err
	}
	return h.renderReferenceManual(ctx, manual.URI(ref.SourceBuiltin, label))
}

func (h *Handler) renderReferenceManual(ctx context.Context, uri string) (*ManualResult, error) {
	if uri == "" {
		return nil, errors.NewInvalidRequestError("missing manual URI")
	}
	markdown, err := manual.Render(ctx, h.service.Registry().Store(), uri)
	if err != nil {
		return nil, err
	}

	preview := false
	if cfg := h.service.Registry().Config(); cfg != nil {
		preview = cfg.Editor.ShowReferenceManualInPreview
	}
	return &ManualResult{URI: uri, Markdown: markdown, Preview: preview}, nil
}

func (h *Handler) listReferenceKinds(ctx context.Context) ([]manual.PickItem, error) {
	reg := h.service.Registry()
	p, err := reg.WaitBuiltin(ctx, registry.RetryPolicyFor(reg.Config()))
	if err != nil {
		return nil, err
	}
	return manual.PickItems(p), nil
}

func stringArg(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	s, _ := args[i].(string)
	return s
}
