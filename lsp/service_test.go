package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap/zaptest"

	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/registry"
)

const builtinPath = "../ref/apiref/testdata/builtin.json"

func newTestService(t *testing.T, loadBuiltin bool) *Service {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	reg := registry.New(log)
	if loadBuiltin {
		require.NoError(t, reg.LoadBuiltin(builtinPath))
	}
	s := NewService(reg, log)
	t.Cleanup(s.Close)
	return s
}

func findItem(items []protocol.CompletionItem, label string) (protocol.CompletionItem, bool) {
	for _, item := range items {
		if item.Label == label {
			return item, true
		}
	}
	return protocol.CompletionItem{}, false
}

func TestCompletion_BuiltinItems(t *testing.T) {
	s := newTestService(t, true)
	items := s.Completion()

	pi, ok := findItem(items, "PI")
	require.True(t, ok)
	require.NotNil(t, pi.Kind)
	assert.Equal(t, protocol.CompletionItemKindConstant, *pi.Kind)
	require.NotNil(t, pi.Detail)
	assert.Equal(t, "PI", *pi.Detail)
	assert.Equal(t, string(ref.SourceBuiltin), pi.Data)
	doc, ok := pi.Documentation.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, doc.Kind)
	assert.Contains(t, doc.Value, "circumference")
	assert.Nil(t, pi.InsertText, "plain entries insert their label")

	wa, ok := findItem(items, "wa")
	require.True(t, ok)
	assert.Equal(t, protocol.CompletionItemKindFunction, *wa.Kind, "macros take the function slot")

	sqrt, ok := findItem(items, "sqrt")
	require.True(t, ok)
	assert.Equal(t, protocol.CompletionItemKindMethod, *sqrt.Kind)

	ifItem, ok := findItem(items, "if")
	require.True(t, ok)
	assert.Nil(t, ifItem.Documentation, "empty description is absent")
}

func TestCompletion_SnippetItems(t *testing.T) {
	s := newTestService(t, false)

	mv, ok := findItem(s.Completion(), "mv")
	require.True(t, ok)
	assert.Equal(t, protocol.CompletionItemKindSnippet, *mv.Kind)
	require.NotNil(t, mv.InsertText)
	require.NotNil(t, mv.InsertTextFormat)
	assert.Equal(t, protocol.InsertTextFormatSnippet, *mv.InsertTextFormat)
	assert.Equal(t, string(ref.SourceSnippet), mv.Data)
}

func TestCompletion_CacheInvalidatedOnStale(t *testing.T) {
	s := newTestService(t, true)

	before := s.Completion()
	_, ok := findItem(before, "th")
	assert.False(t, ok)
	mv, _ := findItem(before, "mv")
	assert.NotContains(t, *mv.InsertText, "${1|th|}")

	s.Registry().SetMnemonics(mnemonic.Motor, []string{"th # two theta"})

	after := s.Completion()
	th, ok := findItem(after, "th")
	require.True(t, ok, "motor source was invalidated")
	assert.Equal(t, protocol.CompletionItemKindEnumMember, *th.Kind)

	mv, ok = findItem(after, "mv")
	require.True(t, ok)
	assert.Contains(t, *mv.InsertText, "${1|th|}", "snippet source was invalidated by the cascade")

	_, ok = findItem(after, "PI")
	assert.True(t, ok, "untouched sources keep their items")
}

func TestCompletion_CachedUntilStale(t *testing.T) {
	s := newTestService(t, true)
	s.Completion()

	s.mu.Lock()
	_, cached := s.items[ref.SourceBuiltin]
	s.mu.Unlock()
	assert.True(t, cached)

	s.OnStale(ref.SourceBuiltin)

	s.mu.Lock()
	_, cached = s.items[ref.SourceBuiltin]
	s.mu.Unlock()
	assert.False(t, cached)
}

func TestHover(t *testing.T) {
	s := newTestService(t, true)

	md, ok := s.Hover("ct")
	require.True(t, ok)
	assert.Contains(t, md, "```spec\nct [sec]\n```")
	assert.Contains(t, md, "count for sec seconds")
	assert.Contains(t, md, "`ct -mon` — count to monitor counts")
	assert.Contains(t, md, "_macro_")

	_, ok = s.Hover("nosuchname")
	assert.False(t, ok)

	_, ok = s.Hover("")
	assert.False(t, ok)
}

func TestHover_MnemonicAndBuiltinShareName(t *testing.T) {
	s := newTestService(t, true)
	s.Registry().SetMnemonics(mnemonic.Motor, []string{"A # analyzer"})

	md, ok := s.Hover("A")
	require.True(t, ok)
	assert.Contains(t, md, "_variable_")
	assert.Contains(t, md, "_member_")
	assert.Contains(t, md, "\n\n---\n\n")
}

func TestWorkspaceSymbols(t *testing.T) {
	s := newTestService(t, true)

	symbols := s.WorkspaceSymbols("")
	require.Len(t, symbols, 1, "only located entries are listed")

	pi := symbols[0]
	assert.Equal(t, "PI", pi.Name)
	assert.Equal(t, protocol.SymbolKindConstant, pi.Kind)
	assert.Equal(t, protocol.DocumentUri(ref.SourceBuiltin), pi.Location.URI)
	assert.Equal(t, protocol.UInteger(3), pi.Location.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(0), pi.Location.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(2), pi.Location.Range.End.Character)

	assert.Len(t, s.WorkspaceSymbols("p"), 1, "query is case-insensitive")
	assert.Empty(t, s.WorkspaceSymbols("zz"))
}

func TestWordAt(t *testing.T) {
	text := "umv th 10\r\np = PI*2\n"

	tests := []struct {
		name      string
		line      int
		character int
		want      string
	}{
		{"start of word", 0, 0, "umv"},
		{"inside word", 0, 5, "th"},
		{"end of word", 0, 6, "th"},
		{"number", 0, 8, "10"},
		{"before operator", 1, 5, "PI"},
		{"on space", 1, 2, ""},
		{"line out of range", 5, 0, ""},
		{"character out of range", 0, 99, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordAt(text, tt.line, tt.character))
		})
	}
}
