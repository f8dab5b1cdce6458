package manual

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/ref"
)

func builtinStore(t *testing.T) *ref.Store {
	t.Helper()

	constants := ref.NewEntryMap()
	constants.Set("PI", ref.Entry{Signature: "PI", Description: "3.14159..."})
	macros := ref.NewEntryMap()
	macros.Set("ct", ref.Entry{
		Signature:   "ct [sec]",
		Description: "count",
		Overloads:   []ref.Overload{{Signature: "ct -mon", Description: "count to monitor"}, {Signature: "ct -t"}},
	})
	macros.Set("wa", ref.Entry{Signature: "wa"})

	p := ref.NewPartition()
	p.Set(ref.KindConstant, constants)
	p.Set(ref.KindMacro, macros)

	s := ref.NewStore()
	s.Install(ref.SourceBuiltin, p)
	return s
}

func TestRender_All(t *testing.T) {
	doc, err := Render(context.Background(), builtinStore(t), string(ref.SourceBuiltin))
	require.NoError(t, err)

	want := title + citation +
		"## constant\n\n" +
		"### PI\n\n`PI` — 3.14159...\n\n" +
		"## macro\n\n" +
		"### ct\n\n`ct [sec]` — count\n\n`ct -mon` — count to monitor\n\n`ct -t`\n\n" +
		"### wa\n\n`wa`\n\n"
	assert.Equal(t, want, doc)
}

func TestRender_SingleKind(t *testing.T) {
	doc, err := Render(context.Background(), builtinStore(t), URI(ref.SourceBuiltin, "macro"))
	require.NoError(t, err)

	assert.Contains(t, doc, "## macro")
	assert.NotContains(t, doc, "## constant")
	assert.True(t, strings.HasPrefix(doc, "# __spec__ Reference Manual\n\n"))
}

func TestRender_UnknownLabelRendersTitleOnly(t *testing.T) {
	doc, err := Render(context.Background(), builtinStore(t), "spec://system/built-in.md?snippet")
	require.NoError(t, err)
	assert.Equal(t, title+citation, doc)
}

func TestRender_CitationOnlyForBuiltin(t *testing.T) {
	s := builtinStore(t)
	motors := ref.NewEntryMap()
	motors.Set("th", ref.Entry{Signature: "th", Description: "two theta"})
	s.Replace(ref.SourceMotor, ref.KindEnum, motors)

	doc, err := Render(context.Background(), s, string(ref.SourceMotor))
	require.NoError(t, err)
	assert.Equal(t, title+"## member\n\n### th\n\n`th` — two theta\n\n", doc)
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, err := Render(ctx, builtinStore(t), string(ref.SourceBuiltin))
	assert.Empty(t, doc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_AbsentSource(t *testing.T) {
	_, err := Render(context.Background(), ref.NewStore(), string(ref.SourceBuiltin))
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri       string
		wantSrc   ref.Source
		wantLabel string
		wantErr   bool
	}{
		{"spec://system/built-in.md", ref.SourceBuiltin, "", false},
		{"spec://system/built-in.md?macro", ref.SourceBuiltin, "macro", false},
		{"spec://system/built-in.md?all", ref.SourceBuiltin, "", false},
		{"spec://user/active-document.md?function", ref.SourceActiveDocument, "function", false},
		{"file:///tmp/built-in.md", "", "", true},
		{"spec:///built-in.md", "", "", true},
		{"://", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			src, label, err := ParseURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestURI(t *testing.T) {
	assert.Equal(t, "spec://system/built-in.md", URI(ref.SourceBuiltin, ""))
	assert.Equal(t, "spec://system/built-in.md", URI(ref.SourceBuiltin, "all"))
	assert.Equal(t, "spec://system/built-in.md?keyword", URI(ref.SourceBuiltin, "keyword"))
}

func TestPickItems(t *testing.T) {
	p, _ := builtinStore(t).Partition(ref.SourceBuiltin)

	assert.Equal(t, []PickItem{
		{Key: "all", Label: "$(references) all"},
		{Key: "constant", Label: "$(symbol-constant) constant"},
		{Key: "macro", Label: "$(symbol-function) macro"},
	}, PickItems(p))
}
