// Package registry owns the reference Store and keeps it in step with the
// built-in database and the user's configuration.
//
// Every rebuild runs to completion under one mutex, so two rebuilds never
// interleave. Readers go straight to the Store and never wait on rebuilds.
package registry

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/ref/apiref"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/ref/snippet"
	"github.com/fujidana/specref/sym"
)

// Registry coordinates writes to a ref.Store.
type Registry struct {
	store *ref.Store
	log   *zap.SugaredLogger

	mu           sync.Mutex // serializes rebuilds
	userSnippets []string
	config       *am.Config // what the store reflects

	applyMu    sync.Mutex // serializes whole configuration applies
	file       *am.Config
	client     am.ClientSettings
	loadedPath string

	obsMu     sync.RWMutex
	observers []StaleObserver
}

// New creates a registry with empty mnemonic partitions and the stock
// snippet templates compiled. The built-in source stays absent until a
// database is loaded.
func New(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	r := &Registry{store: ref.NewStore(), log: log}
	for _, class := range mnemonic.Classes {
		r.store.Install(class.Source, ref.NewPartition(ref.KindEnum))
	}
	r.store.Install(ref.SourceSnippet, ref.NewPartition(ref.KindSnippet))

	r.mu.Lock()
	r.rebuildSnippetsLocked()
	r.mu.Unlock()
	return r
}

// Store returns the store the registry writes to
func (r *Registry) Store() *ref.Store {
	return r.store
}

// LoadBuiltin reads the database at path and installs it as the built-in
// source. On failure the previously installed partition, if any, stays.
func (r *Registry) LoadBuiltin(path string) error {
	start := time.Now()

	p, err := apiref.LoadFile(path)
	if err != nil {
		r.log.Errorw("Failed to load API reference database",
			logger.FieldFile, path,
			logger.FieldError, err)
		return errors.Wrap(err, "load built-in reference")
	}

	r.InstallBuiltin(p)
	r.log.Infow("Built-in database loaded",
		logger.FieldSymbol, sym.Registry,
		logger.FieldSource, string(ref.SourceBuiltin),
		logger.FieldFile, path,
		logger.FieldCount, p.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

// LoadBuiltinAsync loads in the background. The channel receives the load
// error (or nil) once and is then closed.
func (r *Registry) LoadBuiltinAsync(path string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- r.LoadBuiltin(path)
	}()
	return done
}

// InstallBuiltin replaces the built-in partition wholesale
func (r *Registry) InstallBuiltin(p *ref.Partition) {
	r.mu.Lock()
	r.store.Install(ref.SourceBuiltin, p)
	r.mu.Unlock()

	r.notifyStale(ref.SourceBuiltin)
}

// SetMnemonics rebuilds one mnemonic class from configuration lines and
// then recompiles snippets, whose choice lists depend on the names.
func (r *Registry) SetMnemonics(class mnemonic.Class, lines []string) {
	r.mu.Lock()
	m, skipped := mnemonic.Build(lines)
	for _, u := range skipped {
		r.log.Debugw("Dropped mnemonic line",
			logger.FieldSource, string(class.Source),
			logger.FieldLine, u.Line,
			logger.FieldError, u.Reason)
	}
	r.store.Replace(class.Source, ref.KindEnum, m)
	r.rebuildSnippetsLocked()
	r.mu.Unlock()

	r.log.Debugw("Mnemonics rebuilt",
		logger.FieldSymbol, sym.Registry,
		logger.FieldSource, string(class.Source),
		logger.FieldCount, m.Len(),
		logger.FieldDropped, len(skipped))
	r.notifyStale(class.Source, ref.SourceSnippet)
}

// SetUserSnippets replaces the user templates appended after the stock ones
func (r *Registry) SetUserSnippets(lines []string) {
	r.mu.Lock()
	r.userSnippets = append([]string(nil), lines...)
	r.rebuildSnippetsLocked()
	r.mu.Unlock()

	r.notifyStale(ref.SourceSnippet)
}

// RebuildSnippets recompiles the snippet source from current state
func (r *Registry) RebuildSnippets() {
	r.mu.Lock()
	r.rebuildSnippetsLocked()
	r.mu.Unlock()

	r.notifyStale(ref.SourceSnippet)
}

func (r *Registry) rebuildSnippetsLocked() {
	templates := make([]string, 0, len(snippet.Builtin)+len(r.userSnippets))
	templates = append(templates, snippet.Builtin...)
	templates = append(templates, r.userSnippets...)

	m, skipped := snippet.Compile(templates, r.Names(mnemonic.Motor), r.Names(mnemonic.Counter))
	for _, u := range skipped {
		r.log.Debugw("Dropped snippet template",
			logger.FieldSource, string(ref.SourceSnippet),
			logger.FieldTemplate, u.Template,
			logger.FieldError, u.Reason)
	}
	r.store.Replace(ref.SourceSnippet, ref.KindSnippet, m)
}

// Names returns the mnemonic names of a class in configuration order
func (r *Registry) Names(class mnemonic.Class) []string {
	m, _ := r.store.Entries(class.Source, ref.KindEnum)
	return m.Names()
}
