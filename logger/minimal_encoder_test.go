package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fujidana/specref/errors"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	ent := zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "Testing field preservation"}

	out := encode(t, newMinimalEncoder(), ent,
		zap.String("random_field_xyz", "important_data"),
		zap.Int("critical_count", 999),
		zap.Bool("success", false),
		zap.Float64("opacity", 0.8),
		zap.String("field.with.dots", "x"),
		zap.Error(errors.New("something went wrong")),
	)

	for _, want := range []string{
		"random_field_xyz=important_data",
		"critical_count=999",
		"success=false",
		"opacity=0.8",
		"field.with.dots=x",
		"error=something went wrong",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "errorVerbose")
}

func TestMinimalEncoder_Layout(t *testing.T) {
	ent := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "lsp.handler",
		Message:    "Built-in database loaded",
	}

	out := encode(t, newMinimalEncoder(), ent,
		zap.String(FieldSymbol, "⊞"),
		zap.String(FieldSource, "spec://system/built-in.md"),
		zap.String(FieldKind, "constant"),
		zap.Int(FieldCount, 412),
		zap.Int64(FieldDurationMS, 12),
	)

	assert.Equal(t, "13:04:35  ⊞  l.handler  Built-in database loaded  spec://system/built-in.md  π constant  12ms  count=412\n", out)
}

func TestMinimalEncoder_LevelsAndWith(t *testing.T) {
	enc := newMinimalEncoder()
	zap.String(FieldSession, "s-1").AddTo(enc)
	clone := enc.Clone()

	warn := encode(t, clone, zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "Dropped template"})
	assert.Contains(t, warn, "WARN")
	assert.Contains(t, warn, "session_id=s-1")

	info := encode(t, clone, zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "ok"})
	assert.NotContains(t, info, "INFO")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "registry", abbreviateName("registry"))
	assert.Equal(t, "l.handler", abbreviateName("lsp.handler"))
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("everforest") })

	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)
	SetTheme("solarized")
	assert.Equal(t, "gruvbox", currentTheme, "unknown themes are ignored")
}
