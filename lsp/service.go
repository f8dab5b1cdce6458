// Package lsp exposes the reference registry to editors over the Language
// Server Protocol: completion, hover, workspace symbols, the reference
// manual commands and configuration intake.
package lsp

import (
	"sort"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/fujidana/specref/internal/util"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/registry"
)

// Service answers language queries from the registry's store.
//
// Completion items are built once per source and cached until the registry
// reports that source stale.
type Service struct {
	reg *registry.Registry
	log *zap.SugaredLogger

	mu    sync.Mutex
	items map[ref.Source][]protocol.CompletionItem
}

// NewService creates a service and subscribes it to stale notifications
func NewService(reg *registry.Registry, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Service{
		reg:   reg,
		log:   log,
		items: make(map[ref.Source][]protocol.CompletionItem),
	}
	reg.AddObserver(s)
	return s
}

// Close unsubscribes the service from the registry
func (s *Service) Close() {
	s.reg.RemoveObserver(s)
}

// Registry returns the registry the service reads
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// OnStale drops the cached completion items of src.
func (s *Service) OnStale(src ref.Source) {
	s.mu.Lock()
	delete(s.items, src)
	s.mu.Unlock()
	s.log.Debugw("Completion items invalidated", logger.FieldSource, string(src))
}

// Completion returns the items of every installed source. The editor does
// the prefix filtering.
func (s *Service) Completion() []protocol.CompletionItem {
	var all []protocol.CompletionItem
	for _, src := range s.reg.Store().Sources() {
		all = append(all, s.sourceItems(src)...)
	}
	return all
}

func (s *Service) sourceItems(src ref.Source) []protocol.CompletionItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items, ok := s.items[src]; ok {
		return items
	}

	p, ok := s.reg.Store().Partition(src)
	if !ok {
		return nil
	}

	var items []protocol.CompletionItem
	for _, kind := range p.Kinds() {
		m, _ := p.Map(kind)
		for _, ne := range m.Entries() {
			items = append(items, completionItem(src, kind, ne))
		}
	}
	s.items[src] = items
	s.log.Debugw("Completion items built",
		logger.FieldSource, string(src),
		logger.FieldCount, len(items))
	return items
}

func completionItem(src ref.Source, kind ref.Kind, ne ref.NamedEntry) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:  ne.Name,
		Detail: stringPtrOrNil(ne.Entry.Signature),
		Data:   string(src),
	}
	if ck, ok := kind.ToCompletionItemKind(); ok {
		item.Kind = util.Ptr(ck)
	}
	if ne.Entry.Description != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: ne.Entry.Description,
		}
	}
	if ne.Entry.Insertable() {
		item.InsertText = util.Ptr(ne.Entry.Snippet)
		item.InsertTextFormat = util.Ptr(protocol.InsertTextFormatSnippet)
	}
	return item
}

// Hover renders every entry named name as Markdown. Returns false when no
// source knows the name.
func (s *Service) Hover(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	matches := s.reg.Store().Lookup(name)
	if len(matches) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		var b strings.Builder
		b.WriteString("```spec\n")
		b.WriteString(m.Entry.Signature)
		b.WriteString("\n```\n")
		if m.Entry.Description != "" {
			b.WriteString("\n")
			b.WriteString(m.Entry.Description)
			b.WriteString("\n")
		}
		for _, o := range m.Entry.Overloads {
			b.WriteString("\n`")
			b.WriteString(o.Signature)
			b.WriteString("`")
			if o.Description != "" {
				b.WriteString(" — ")
				b.WriteString(o.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n_")
		b.WriteString(m.Kind.Label())
		b.WriteString("_")
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n---\n\n"), true
}

// WorkspaceSymbols lists entries that carry a location and map to a
// non-null symbol kind, filtered by a case-insensitive substring of query.
func (s *Service) WorkspaceSymbols(query string) []protocol.SymbolInformation {
	query = strings.ToLower(query)
	var symbols []protocol.SymbolInformation
	for _, m := range s.reg.Store().Search("") {
		if m.Entry.Location == nil {
			continue
		}
		sk := m.Kind.ToSymbolKind()
		if sk == protocol.SymbolKindNull {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(m.Name), query) {
			continue
		}
		symbols = append(symbols, protocol.SymbolInformation{
			Name: m.Name,
			Kind: sk,
			Location: protocol.Location{
				URI:   protocol.DocumentUri(m.Source),
				Range: toProtocolRange(*m.Entry.Location),
			},
			ContainerName: util.Ptr(m.Kind.Label()),
		})
	}
	sort.SliceStable(symbols, func(i, j int) bool { return symbols[i].Name < symbols[j].Name })
	return symbols
}

func toProtocolRange(r ref.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Start.Line), Character: protocol.UInteger(r.Start.Character)},
		End:   protocol.Position{Line: protocol.UInteger(r.End.Line), Character: protocol.UInteger(r.End.Character)},
	}
}

// WordAt returns the identifier under a zero-based line/character position.
// Characters are counted in bytes; identifiers are ASCII.
func WordAt(text string, line, character int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	l := strings.TrimSuffix(lines[line], "\r")
	if character < 0 || character > len(l) {
		return ""
	}

	start := character
	for start > 0 && isWordByte(l[start-1]) {
		start--
	}
	end := character
	for end < len(l) && isWordByte(l[end]) {
		end++
	}
	return l[start:end]
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
