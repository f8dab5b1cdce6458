package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/manual"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/registry"
	"github.com/fujidana/specref/sym"
	"github.com/fujidana/specref/version"
)

// MCPServer exposes the reference registry as Model Context Protocol tools
type MCPServer struct {
	reg    *registry.Registry
	policy registry.RetryPolicy
	logger *zap.SugaredLogger
	server *mcpserver.MCPServer
}

// NewMCPServer creates an MCP server over reg
func NewMCPServer(reg *registry.Registry, policy registry.RetryPolicy, log *zap.SugaredLogger) *MCPServer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &MCPServer{
		reg:    reg,
		policy: policy,
		logger: log,
		server: mcpserver.NewMCPServer(
			"specref",
			version.Get().Version,
			mcpserver.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

func (s *MCPServer) registerTools() {
	lookupTool := mcp.NewTool("spec_lookup",
		mcp.WithDescription("Look up a spec built-in, mnemonic or snippet by exact name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Symbol name, e.g. ascan or PI"),
		),
	)
	s.server.AddTool(lookupTool, s.handleLookup)

	manualTool := mcp.NewTool("spec_manual",
		mcp.WithDescription("Render the __spec__ reference manual as Markdown"),
		mcp.WithString("kind",
			mcp.Description("Restrict to one kind: constant, variable, macro, function, keyword (default: all)"),
		),
		mcp.WithString("source",
			mcp.Description("Source URI (default: "+string(ref.SourceBuiltin)+")"),
		),
	)
	s.server.AddTool(manualTool, s.handleManual)

	snippetsTool := mcp.NewTool("spec_snippets",
		mcp.WithDescription("List the command snippets compiled for the configured motors and counters"),
	)
	s.server.AddTool(snippetsTool, s.handleSnippets)
}

// handleLookup handles spec_lookup tool calls
func (s *MCPServer) handleLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches := s.reg.Store().Lookup(name)
	s.logger.Debugw("MCP lookup", logger.FieldName, name, logger.FieldCount, len(matches))
	if len(matches) == 0 {
		if _, loaded := s.reg.Store().Partition(ref.SourceBuiltin); !loaded {
			return mcp.NewToolResultText(fmt.Sprintf("No entry named %q (the built-in database is not loaded)", name)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("No entry named %q", name)), nil
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "%s %s (%s, %s)\n", m.Kind.Glyph(), m.Name, m.Kind.Label(), m.Source)
		writeEntry(&b, m.Entry.Signature, m.Entry.Description)
		for _, o := range m.Entry.Overloads {
			writeEntry(&b, o.Signature, o.Description)
		}
		if m.Entry.Insertable() {
			fmt.Fprintf(&b, "  snippet: %s\n", m.Entry.Snippet)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleManual handles spec_manual tool calls
func (s *MCPServer) handleManual(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := request.GetString("kind", sym.AllLabel)
	if kind != sym.AllLabel {
		if _, ok := ref.ParseKindLabel(kind); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown reference kind %q", kind)), nil
		}
	}

	src := ref.Source(request.GetString("source", string(ref.SourceBuiltin)))
	if src == ref.SourceBuiltin {
		if _, err := s.reg.WaitBuiltin(ctx, s.policy); err != nil {
			if errors.IsTimeout(err) {
				return mcp.NewToolResultError(registry.TimeoutMessage), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	markdown, err := manual.Render(ctx, s.reg.Store(), manual.URI(src, kind))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(markdown), nil
}

// handleSnippets handles spec_snippets tool calls
func (s *MCPServer) handleSnippets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snippets, ok := s.reg.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	if !ok || snippets.Len() == 0 {
		return mcp.NewToolResultText("No snippets"), nil
	}

	var b strings.Builder
	for _, ne := range snippets.Entries() {
		fmt.Fprintf(&b, "%s %s\n", sym.Snippet, ne.Name)
		writeEntry(&b, ne.Entry.Signature, ne.Entry.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func writeEntry(b *strings.Builder, signature, description string) {
	b.WriteString("  " + signature)
	if description != "" {
		b.WriteString(" — " + description)
	}
	b.WriteString("\n")
}

// Serve starts the MCP server using stdio transport
func (s *MCPServer) Serve() error {
	s.logger.Infow("Serving MCP tools over stdio")
	return mcpserver.ServeStdio(s.server)
}
