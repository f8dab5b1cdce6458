package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/fujidana/specref/sym"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one color theme. Field names describe the role, not the hue.
type palette struct {
	fg        string
	time      string
	id        string // session ids, URIs
	number    string // counts and durations
	glyph     string
	component []string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m", // #ebdbb2
	time:      "\x1b[38;5;108m", // #8ec07c
	id:        "\x1b[38;5;109m", // #83a598
	number:    "\x1b[38;5;175m", // #d3869b
	glyph:     "\x1b[38;5;142m", // #b8bb26
	component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m", // #d3c6aa
	time:      "\x1b[38;5;107m", // #83c092
	id:        "\x1b[38;5;109m", // #7fbbb3
	number:    "\x1b[38;5;108m", // #a7c080
	glyph:     "\x1b[38;5;108m",
	component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Current active theme
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are ignored.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := colors()
	return p.component[hash%len(p.component)]
}

// minimalEncoder implements a calm, compact console encoder with theme support.
// Format: "13:04:35  ⊞  registry  Built-in database loaded  spec://system/built-in.md  count=412"
//
// The embedded map encoder collects fields attached with Logger.With.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := buffer.NewPool().Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if ent.Level != zapcore.InfoLevel && ent.Level != zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	values := fieldValues(enc.Fields, fields)

	if glyph, ok := values[FieldSymbol]; ok {
		final.AppendString("  ")
		final.AppendString(p.glyph + glyph + colorReset)
		delete(values, FieldSymbol)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(p.fg + ent.Message + colorReset)

	if rendered := renderFields(values, p); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: registry -> registry, lsp.handler -> l.handler
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// fieldValues flattens context and entry fields to strings without dropping any
func fieldValues(context map[string]interface{}, fields []zapcore.Field) map[string]string {
	menc := zapcore.NewMapObjectEncoder()
	for k, v := range context {
		menc.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(menc)
	}

	values := make(map[string]string, len(menc.Fields))
	for k, v := range menc.Fields {
		values[k] = fmt.Sprint(v)
	}
	return values
}

// renderFields prints the source URI and kind first, bare. Everything else
// follows as sorted key=value so nothing is silently discarded.
func renderFields(values map[string]string, p palette) string {
	var parts []string

	// zap.Error adds the full stack under errorVerbose; the message is enough here
	delete(values, "errorVerbose")

	for _, key := range []string{FieldSource, FieldURI} {
		if v, ok := values[key]; ok {
			parts = append(parts, p.id+v+colorReset)
			delete(values, key)
		}
	}
	if v, ok := values[FieldKind]; ok {
		label := v
		if g := sym.Glyph(v); g != "" && g != sym.Symbol {
			label = g + " " + v
		}
		parts = append(parts, p.glyph+label+colorReset)
		delete(values, FieldKind)
	}
	if v, ok := values[FieldDurationMS]; ok {
		parts = append(parts, p.number+v+colorReset+"ms")
		delete(values, FieldDurationMS)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := values[k]
		switch k {
		case FieldCount, FieldDropped, FieldAttempts:
			parts = append(parts, k+"="+p.number+v+colorReset)
		case FieldSession:
			parts = append(parts, k+"="+p.id+v+colorReset)
		default:
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, "  ")
}
