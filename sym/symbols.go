// Package sym defines canonical symbols for reference kinds and system markers.
// These symbols are stable across the editor pick lists, CLI output and logs.
//
// Entries are keyed by kind label ("constant", "macro", ...) so that this
// package stays a leaf: ref.Kind resolves its own label and asks here for
// the glyph or codicon.
package sym

// Glyph string constants: the terminal expression of each reference kind.
const (
	Constant = "π" // constant: fixed value in the built-in database
	Variable = "𝑥" // variable: built-in global variable
	Macro    = "⨍" // macro: built-in or user macro
	Function = "ƒ" // function: built-in function
	Keyword  = "⌘" // keyword: reserved word of the language
	Snippet  = "✂" // snippet: insertable command template
	Member   = "∈" // member: motor or counter mnemonic
	Symbol   = "?" // symbol: unclassified
)

// System infrastructure symbols.
const (
	Registry = "⊞" // reference registry rebuilds
	Manual   = "▤" // reference manual documents
	Config   = "≡" // configuration reloads
)

// AllLabel is the pick-list entry that selects every kind at once.
const AllLabel = "all"

// entry binds a kind label to its glyph and editor codicon.
type entry struct {
	label   string
	glyph   string
	codicon string
}

// registry is the canonical mapping between kind labels and symbol metadata.
// Order matches the order kinds appear in the reference manual.
var registry = []entry{
	{"constant", Constant, "symbol-constant"},
	{"variable", Variable, "symbol-variable"},
	{"macro", Macro, "symbol-function"},
	{"function", Function, "symbol-method"},
	{"keyword", Keyword, "symbol-keyword"},
	{"snippet", Snippet, "symbol-snippet"},
	{"member", Member, "symbol-enum-member"},
	{"symbol", Symbol, "symbol-misc"},
	{AllLabel, "*", "references"},
}

// Lookup tables built from the registry at init time.
var (
	labelToGlyph   map[string]string
	labelToCodicon map[string]string
	glyphToLabel   map[string]string
)

func init() {
	labelToGlyph = make(map[string]string, len(registry))
	labelToCodicon = make(map[string]string, len(registry))
	glyphToLabel = make(map[string]string, len(registry))
	for _, e := range registry {
		labelToGlyph[e.label] = e.glyph
		labelToCodicon[e.label] = e.codicon
		glyphToLabel[e.glyph] = e.label
	}
}

// Glyph returns the Unicode glyph for a kind label, or Symbol when unknown.
func Glyph(label string) string {
	if g, ok := labelToGlyph[label]; ok {
		return g
	}
	return Symbol
}

// Codicon returns the editor icon identifier for a kind label.
func Codicon(label string) string {
	if c, ok := labelToCodicon[label]; ok {
		return c
	}
	return labelToCodicon["symbol"]
}

// FromGlyph returns the kind label for a glyph, or "" when unknown.
func FromGlyph(glyph string) string {
	return glyphToLabel[glyph]
}

// PickLabel formats a label the way editor quick picks render icons: "$(icon) label".
func PickLabel(label string) string {
	return "$(" + Codicon(label) + ") " + label
}
