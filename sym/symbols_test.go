package sym

import (
	"testing"
	"unicode/utf8"
)

func TestGlyphAndFromGlyphAreBidirectional(t *testing.T) {
	for _, e := range registry {
		got := FromGlyph(Glyph(e.label))
		if got != e.label {
			t.Errorf("FromGlyph(Glyph(%q)) = %q", e.label, got)
		}
	}
}

func TestRegistryHasNoDuplicates(t *testing.T) {
	labels := make(map[string]bool, len(registry))
	glyphs := make(map[string]bool, len(registry))
	for _, e := range registry {
		if labels[e.label] {
			t.Errorf("duplicate label %q", e.label)
		}
		if glyphs[e.glyph] {
			t.Errorf("duplicate glyph %q for label %q", e.glyph, e.label)
		}
		labels[e.label] = true
		glyphs[e.glyph] = true
	}
}

func TestSymbolsAreValidUnicode(t *testing.T) {
	for _, e := range registry {
		if !utf8.ValidString(e.glyph) || utf8.RuneCountInString(e.glyph) == 0 {
			t.Errorf("glyph for %q is not a valid non-empty string", e.label)
		}
	}
}

func TestUnknownLabelFallsBack(t *testing.T) {
	if got := Glyph("nonsense"); got != Symbol {
		t.Errorf("Glyph(unknown) = %q, want %q", got, Symbol)
	}
	if got := Codicon("nonsense"); got != "symbol-misc" {
		t.Errorf("Codicon(unknown) = %q, want symbol-misc", got)
	}
}

func TestPickLabel(t *testing.T) {
	if got := PickLabel("member"); got != "$(symbol-enum-member) member" {
		t.Errorf("PickLabel(member) = %q", got)
	}
	if got := PickLabel(AllLabel); got != "$(references) all" {
		t.Errorf("PickLabel(all) = %q", got)
	}
}
