package ref

import (
	"fmt"

	"github.com/fujidana/specref/sym"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Kind classifies a reference entry.
type Kind int

const (
	KindUndefined Kind = iota
	KindConstant
	KindVariable
	KindMacro
	KindFunction
	KindKeyword
	KindSnippet
	KindEnum
)

// Kinds lists every defined kind except KindUndefined, in manual order.
var Kinds = []Kind{
	KindConstant,
	KindVariable,
	KindMacro,
	KindFunction,
	KindKeyword,
	KindSnippet,
	KindEnum,
}

var kindLabels = map[Kind]string{
	KindUndefined: "symbol",
	KindConstant:  "constant",
	KindVariable:  "variable",
	KindMacro:     "macro",
	KindFunction:  "function",
	KindKeyword:   "keyword",
	KindSnippet:   "snippet",
	KindEnum:      "member",
}

// kindToCompletion is injective. Macro takes the editor's "function" slot
// and Function takes "method"; Undefined has no entry.
var kindToCompletion = map[Kind]protocol.CompletionItemKind{
	KindConstant: protocol.CompletionItemKindConstant,
	KindVariable: protocol.CompletionItemKindVariable,
	KindMacro:    protocol.CompletionItemKindFunction,
	KindFunction: protocol.CompletionItemKindMethod,
	KindKeyword:  protocol.CompletionItemKindKeyword,
	KindSnippet:  protocol.CompletionItemKindSnippet,
	KindEnum:     protocol.CompletionItemKindEnumMember,
}

// kindToSymbol collapses Keyword, Snippet and Undefined onto Null.
var kindToSymbol = map[Kind]protocol.SymbolKind{
	KindConstant: protocol.SymbolKindConstant,
	KindVariable: protocol.SymbolKindVariable,
	KindMacro:    protocol.SymbolKindFunction,
	KindFunction: protocol.SymbolKindMethod,
	KindEnum:     protocol.SymbolKindEnumMember,
}

var (
	completionToKind map[protocol.CompletionItemKind]Kind
	labelToKind      map[string]Kind
)

func init() {
	completionToKind = make(map[protocol.CompletionItemKind]Kind, len(kindToCompletion))
	for k, ck := range kindToCompletion {
		if prev, dup := completionToKind[ck]; dup {
			panic(fmt.Sprintf("ref: completion kind %d mapped from both %s and %s", ck, prev, k))
		}
		completionToKind[ck] = k
	}

	labelToKind = make(map[string]Kind, len(kindLabels))
	for k, label := range kindLabels {
		labelToKind[label] = k
	}
}

// Label returns the stable lowercase noun used for manual headings and
// kind filters. Labels are unique per kind.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return kindLabels[KindUndefined]
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return k.Label()
}

// Icon returns the editor codicon identifier for the kind.
func (k Kind) Icon() string {
	return sym.Codicon(k.Label())
}

// Glyph returns the terminal glyph for the kind.
func (k Kind) Glyph() string {
	return sym.Glyph(k.Label())
}

// ToCompletionItemKind maps the kind to the editor's completion kind.
// Reports false for KindUndefined.
func (k Kind) ToCompletionItemKind() (protocol.CompletionItemKind, bool) {
	ck, ok := kindToCompletion[k]
	return ck, ok
}

// ToSymbolKind maps the kind to the editor's outline symbol kind.
func (k Kind) ToSymbolKind() protocol.SymbolKind {
	if sk, ok := kindToSymbol[k]; ok {
		return sk
	}
	return protocol.SymbolKindNull
}

// KindFromCompletionItemKind is total: nil or unmapped input yields KindUndefined.
func KindFromCompletionItemKind(ck *protocol.CompletionItemKind) Kind {
	if ck == nil {
		return KindUndefined
	}
	if k, ok := completionToKind[*ck]; ok {
		return k
	}
	return KindUndefined
}

// ParseKindLabel converts a label back to its kind.
func ParseKindLabel(label string) (Kind, bool) {
	k, ok := labelToKind[label]
	return k, ok
}
