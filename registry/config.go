package registry

import (
	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/sym"
)

// ApplyConfig installs cfg as the file configuration. Settings the editor
// sent through ApplyClientSettings stay on top of it. Only the sections
// that differ from the last applied configuration are rebuilt. A failed
// built-in load is returned; the other sections are still applied.
func (r *Registry) ApplyConfig(cfg *am.Config) error {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()

	r.file = cfg
	return r.applyLocked(r.client.Apply(cfg))
}

// ApplyClientSettings merges editor settings into the overlay kept across
// file reloads and applies the result.
func (r *Registry) ApplyClientSettings(s am.ClientSettings) error {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()

	r.client = r.client.Merge(s)
	return r.applyLocked(r.client.Apply(r.file))
}

// applyLocked runs with applyMu held, so concurrent applies finish in
// order and Config always describes the last completed one. The built-in
// database is loaded whenever its path differs from the last path that
// loaded, so a failed load is retried by the next apply.
func (r *Registry) applyLocked(cfg *am.Config) error {
	changes := am.Diff(r.Config(), cfg)
	needLoad := cfg.Reference.Path != "" && cfg.Reference.Path != r.loadedPath
	if !changes.Any() && !needLoad {
		r.setConfig(cfg)
		return nil
	}

	r.log.Infow("Applying configuration",
		logger.FieldSymbol, sym.Config,
		"reference", needLoad,
		"motors", changes.Motors,
		"counters", changes.Counters,
		"snippets", changes.Snippets)

	if changes.Motors {
		r.SetMnemonics(mnemonic.Motor, cfg.Mnemonic.Motors)
	}
	if changes.Counters {
		r.SetMnemonics(mnemonic.Counter, cfg.Mnemonic.Counters)
	}
	if changes.Snippets {
		r.SetUserSnippets(cfg.Editor.CodeSnippets)
	}

	var err error
	if needLoad {
		if err = r.LoadBuiltin(cfg.Reference.Path); err == nil {
			r.loadedPath = cfg.Reference.Path
		}
	}
	r.setConfig(cfg)
	return err
}

func (r *Registry) setConfig(cfg *am.Config) {
	r.mu.Lock()
	r.config = cfg
	r.mu.Unlock()
}

// Config returns the last applied configuration, file values overlaid with
// client settings, or nil
func (r *Registry) Config() *am.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// RetryPolicyFor derives the built-in wait budget from configuration
func RetryPolicyFor(cfg *am.Config) RetryPolicy {
	if cfg == nil {
		return DefaultRetryPolicy
	}
	return RetryPolicy{Attempts: cfg.Reference.WaitAttempts, Interval: cfg.WaitInterval()}
}
