package commands

import (
	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/registry"
)

// loadConfig reads and validates the configuration cascade
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// openRegistry builds a registry and applies cfg to it synchronously, so
// one-shot commands see the built-in database and every mnemonic.
func openRegistry(cfg *am.Config) (*registry.Registry, error) {
	reg := registry.New(logger.Logger.Named("registry"))
	if err := reg.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return reg, nil
}

// requireBuiltin fails with a hint when no database path is configured
func requireBuiltin(cfg *am.Config) error {
	if cfg.Reference.Path != "" {
		return nil
	}
	return errors.WithHint(
		errors.Wrap(errors.ErrSourceUnavailable, "built-in API reference database"),
		"set reference.path in specref.toml or SPECREF_REFERENCE_PATH",
	)
}

// withoutBuiltin copies cfg with the database path cleared. The loaded
// config is shared, so it is never edited in place.
func withoutBuiltin(cfg *am.Config) *am.Config {
	c := *cfg
	c.Reference.Path = ""
	return &c
}
