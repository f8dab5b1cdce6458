package registry

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/ref/snippet"
)

const builtinJSON = `{
  "constants": {"PI": {"signature": "PI", "description": "3.14159..."}},
  "variables": {"A": {"signature": "A[]"}},
  "macros": {"wa": {"signature": "wa", "description": "where all"}},
  "functions": {"sqrt": {"signature": "sqrt(x)"}},
  "keywords": {"if": {"signature": "if (cond) stmt"}}
}`

func writeBuiltin(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "builtin.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// staleRecorder collects OnStale calls
type staleRecorder struct {
	mu      sync.Mutex
	sources []ref.Source
}

func (s *staleRecorder) OnStale(src ref.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, src)
}

func (s *staleRecorder) got() []ref.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ref.Source(nil), s.sources...)
}

func TestNew_InstallsSystemSources(t *testing.T) {
	r := New(zaptest.NewLogger(t).Sugar())

	_, ok := r.Store().Partition(ref.SourceBuiltin)
	assert.False(t, ok, "built-in is absent until loaded")

	motors, ok := r.Store().Entries(ref.SourceMotor, ref.KindEnum)
	require.True(t, ok)
	assert.Equal(t, 0, motors.Len())

	snippets, ok := r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	require.True(t, ok)
	assert.Equal(t, len(snippet.Builtin), snippets.Len())
}

func TestEndToEnd_BuiltinMnemonicsAndSnippets(t *testing.T) {
	r := New(zaptest.NewLogger(t).Sugar())
	require.NoError(t, r.LoadBuiltin(writeBuiltin(t, builtinJSON)))
	r.SetMnemonics(mnemonic.Motor, []string{"th # two theta"})

	matches := r.Store().Lookup("PI")
	require.Len(t, matches, 1)
	assert.Equal(t, ref.SourceBuiltin, matches[0].Source)
	assert.Equal(t, ref.KindConstant, matches[0].Kind)

	th, ok := r.Store().Entries(ref.SourceMotor, ref.KindEnum)
	require.True(t, ok)
	entry, ok := th.Get("th")
	require.True(t, ok)
	assert.Equal(t, "two theta", entry.Description)

	snippets, _ := r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	mv, ok := snippets.Get("mv")
	require.True(t, ok)
	assert.Equal(t, "mv ${1|th|} ${2:pos}", mv.Snippet)
	assert.Equal(t, "mv motor pos", mv.Signature)
}

func TestSetMnemonics_CascadesToSnippets(t *testing.T) {
	r := New(nil)
	rec := &staleRecorder{}
	r.AddObserver(rec)

	r.SetMnemonics(mnemonic.Motor, []string{"th", "tth", "this_is_too_long"})
	assert.Equal(t, []string{"th", "tth"}, r.Names(mnemonic.Motor))
	assert.Equal(t, []ref.Source{ref.SourceMotor, ref.SourceSnippet}, rec.got())

	snippets, _ := r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	mv, _ := snippets.Get("mv")
	assert.Equal(t, "mv ${1|th,tth|} ${2:pos}", mv.Snippet)

	r.SetMnemonics(mnemonic.Motor, nil)
	snippets, _ = r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	mv, _ = snippets.Get("mv")
	assert.Equal(t, "mv ${1:motor} ${2:pos}", mv.Snippet, "zero motors degrade to a placeholder")
}

func TestSetMnemonics_Idempotent(t *testing.T) {
	r := New(nil)
	lines := []string{"th # two theta", "chi"}

	r.SetMnemonics(mnemonic.Motor, lines)
	first, _ := r.Store().Entries(ref.SourceMotor, ref.KindEnum)
	r.SetMnemonics(mnemonic.Motor, lines)
	second, _ := r.Store().Entries(ref.SourceMotor, ref.KindEnum)

	assert.Equal(t, first.Entries(), second.Entries())
}

func TestSetMnemonics_CountersFeedCounterPlaceholders(t *testing.T) {
	r := New(nil)
	r.SetUserSnippets([]string{"ct ${1%CNT} ${2:sec} # count"})
	r.SetMnemonics(mnemonic.Counter, []string{"det", "mon"})

	snippets, _ := r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	ct, ok := snippets.Get("ct")
	require.True(t, ok)
	assert.Equal(t, "ct ${1|det,mon|} ${2:sec}", ct.Snippet)
	assert.Equal(t, "ct counter sec", ct.Signature)
}

func TestSetUserSnippets_ShadowAndDrop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(zap.New(core).Sugar())

	r.SetUserSnippets([]string{
		"mv ${1%MOT} ${2:pos} # site move",
		"not a # valid",
		"???",
	})

	snippets, _ := r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	mv, _ := snippets.Get("mv")
	assert.Equal(t, "site move", mv.Description)
	assert.Equal(t, len(snippet.Builtin)+1, snippets.Len(), "\"not a\" compiles to key \"not\"")

	dropped := logs.FilterMessage("Dropped snippet template").All()
	require.Len(t, dropped, 1)
	assert.Equal(t, "???", dropped[0].ContextMap()[logger.FieldTemplate])
}

func TestLoadBuiltin_FailureKeepsPrevious(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.LoadBuiltin(writeBuiltin(t, builtinJSON)))

	err := r.LoadBuiltin(writeBuiltin(t, `{"constants": {}}`))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedDatabase(err))

	assert.Len(t, r.Store().Lookup("PI"), 1, "previous built-in stays authoritative")
}

func TestLoadBuiltin_NotifiesBuiltinSource(t *testing.T) {
	r := New(nil)
	rec := &staleRecorder{}
	r.AddObserver(rec)

	require.NoError(t, <-r.LoadBuiltinAsync(writeBuiltin(t, builtinJSON)))
	assert.Equal(t, []ref.Source{ref.SourceBuiltin}, rec.got())

	r.RemoveObserver(rec)
	r.RebuildSnippets()
	assert.Len(t, rec.got(), 1)
}

func TestWaitBuiltin(t *testing.T) {
	policy := RetryPolicy{Attempts: 5, Interval: 5 * time.Millisecond}

	t.Run("already loaded", func(t *testing.T) {
		r := New(nil)
		require.NoError(t, r.LoadBuiltin(writeBuiltin(t, builtinJSON)))

		p, err := r.WaitBuiltin(context.Background(), policy)
		require.NoError(t, err)
		assert.Equal(t, 5, p.Len())
	})

	t.Run("loads during wait", func(t *testing.T) {
		r := New(nil)
		path := writeBuiltin(t, builtinJSON)
		go func() {
			time.Sleep(8 * time.Millisecond)
			_ = r.LoadBuiltin(path)
		}()

		p, err := r.WaitBuiltin(context.Background(), RetryPolicy{Attempts: 100, Interval: 5 * time.Millisecond})
		require.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("times out", func(t *testing.T) {
		r := New(nil)

		start := time.Now()
		_, err := r.WaitBuiltin(context.Background(), policy)
		require.Error(t, err)
		assert.True(t, errors.IsTimeout(err))
		assert.Equal(t, TimeoutMessage, err.Error())
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		r := New(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.WaitBuiltin(ctx, RetryPolicy{Attempts: 5, Interval: time.Second})
		require.Error(t, err)
		assert.False(t, errors.IsTimeout(err))
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestApplyConfig_OnlyChangedSections(t *testing.T) {
	r := New(nil)
	rec := &staleRecorder{}
	r.AddObserver(rec)

	cfg := &am.Config{
		Reference: am.ReferenceConfig{Path: writeBuiltin(t, builtinJSON), WaitAttempts: 5, WaitIntervalMs: 50},
		Mnemonic:  am.MnemonicConfig{Motors: []string{"th"}, Counters: []string{"det"}},
	}
	require.NoError(t, r.ApplyConfig(cfg))
	assert.Contains(t, rec.got(), ref.SourceBuiltin)
	assert.Equal(t, []string{"det"}, r.Names(mnemonic.Counter))

	next := *cfg
	next.Mnemonic = am.MnemonicConfig{Motors: []string{"th", "tth"}, Counters: []string{"det"}}
	rec.sources = nil
	require.NoError(t, r.ApplyConfig(&next))

	assert.Equal(t, []ref.Source{ref.SourceMotor, ref.SourceSnippet}, rec.got())
	assert.Equal(t, []string{"th", "tth"}, r.Names(mnemonic.Motor))
	assert.Same(t, &next, r.Config())

	rec.sources = nil
	same := next
	require.NoError(t, r.ApplyConfig(&same))
	assert.Empty(t, rec.got())
}

func TestApplyConfig_BadPathReturnsError(t *testing.T) {
	r := New(nil)
	cfg := &am.Config{
		Reference: am.ReferenceConfig{Path: filepath.Join(t.TempDir(), "absent.json")},
		Mnemonic:  am.MnemonicConfig{Motors: []string{"th"}},
	}

	err := r.ApplyConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Equal(t, []string{"th"}, r.Names(mnemonic.Motor), "other sections still apply")
}

func TestRetryPolicyFor(t *testing.T) {
	assert.Equal(t, DefaultRetryPolicy, RetryPolicyFor(nil))

	cfg := &am.Config{Reference: am.ReferenceConfig{WaitAttempts: 3, WaitIntervalMs: 20}}
	assert.Equal(t, RetryPolicy{Attempts: 3, Interval: 20 * time.Millisecond}, RetryPolicyFor(cfg))
}

func TestConcurrentRebuilds(t *testing.T) {
	r := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.SetMnemonics(mnemonic.Motor, []string{"th", "tth"})
		}()
		go func() {
			defer wg.Done()
			_ = r.Store().Search("")
		}()
	}
	wg.Wait()

	snippets, _ := r.Store().Entries(ref.SourceSnippet, ref.KindSnippet)
	mv, _ := snippets.Get("mv")
	assert.Equal(t, "mv ${1|th,tth|} ${2:pos}", mv.Snippet)
}

func TestApplyConfig_FileReloadKeepsClientSettings(t *testing.T) {
	r := New(nil)
	file := &am.Config{
		Reference: am.ReferenceConfig{Path: writeBuiltin(t, builtinJSON), WaitAttempts: 5, WaitIntervalMs: 50},
		Server:    am.ServerConfig{LogTheme: "everforest"},
	}
	require.NoError(t, r.ApplyConfig(file))

	motors := []string{"th # two theta"}
	require.NoError(t, r.ApplyClientSettings(am.ClientSettings{Motors: &motors}))
	assert.Equal(t, []string{"th"}, r.Names(mnemonic.Motor))

	rec := &staleRecorder{}
	r.AddObserver(rec)

	reloaded := *file
	reloaded.Server.LogTheme = "gruvbox"
	require.NoError(t, r.ApplyConfig(&reloaded))

	assert.Equal(t, []string{"th"}, r.Names(mnemonic.Motor), "client motors survive a file reload")
	assert.Empty(t, rec.got(), "nothing the store holds changed")
	assert.Equal(t, "gruvbox", r.Config().Server.LogTheme)
	assert.Equal(t, motors, r.Config().Mnemonic.Motors)

	// a later client message only replaces the keys it carries
	counters := []string{"det"}
	require.NoError(t, r.ApplyClientSettings(am.ClientSettings{Counters: &counters}))
	assert.Equal(t, []string{"th"}, r.Names(mnemonic.Motor))
	assert.Equal(t, []string{"det"}, r.Names(mnemonic.Counter))
}

func TestApplyClientSettings_BeforeFileConfig(t *testing.T) {
	r := New(nil)
	motors := []string{"chi"}
	require.NoError(t, r.ApplyClientSettings(am.ClientSettings{Motors: &motors}))
	assert.Equal(t, []string{"chi"}, r.Names(mnemonic.Motor))

	require.NoError(t, r.ApplyConfig(&am.Config{
		Mnemonic: am.MnemonicConfig{Motors: []string{"th"}, Counters: []string{"det"}},
	}))
	assert.Equal(t, []string{"chi"}, r.Names(mnemonic.Motor))
	assert.Equal(t, []string{"det"}, r.Names(mnemonic.Counter))
}

func TestApplyConfig_RetriesFailedLoad(t *testing.T) {
	r := New(nil)
	path := filepath.Join(t.TempDir(), "builtin.json")
	cfg := &am.Config{Reference: am.ReferenceConfig{Path: path, WaitAttempts: 5, WaitIntervalMs: 50}}

	require.Error(t, r.ApplyConfig(cfg))
	_, ok := r.Store().Partition(ref.SourceBuiltin)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(builtinJSON), 0o644))
	same := *cfg
	require.NoError(t, r.ApplyConfig(&same), "the same path is loaded again")
	assert.Len(t, r.Store().Lookup("PI"), 1)

	rec := &staleRecorder{}
	r.AddObserver(rec)
	again := same
	require.NoError(t, r.ApplyConfig(&again))
	assert.Empty(t, rec.got(), "a loaded path is not reloaded")
}

func TestApplyConfig_ConcurrentAppliesEndConsistent(t *testing.T) {
	r := New(nil)
	a := &am.Config{Mnemonic: am.MnemonicConfig{Motors: []string{"th"}}}
	b := &am.Config{Mnemonic: am.MnemonicConfig{Motors: []string{"chi", "phi"}}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.ApplyConfig(a)
		}()
		go func() {
			defer wg.Done()
			_ = r.ApplyConfig(b)
		}()
	}
	wg.Wait()

	assert.Equal(t, r.Config().Mnemonic.Motors, r.Names(mnemonic.Motor))
}
