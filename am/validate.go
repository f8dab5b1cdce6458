package am

import "github.com/fujidana/specref/errors"

// Validate checks that the configuration is valid.
// Mnemonic and snippet lines are not checked here: a bad line is dropped
// when the registry rebuilds, it never rejects the whole configuration.
func (c *Config) Validate() error {
	if c.Reference.WaitAttempts <= 0 {
		return errors.Newf("reference.wait_attempts must be > 0, got %d", c.Reference.WaitAttempts)
	}
	if c.Reference.WaitIntervalMs <= 0 {
		return errors.Newf("reference.wait_interval_ms must be > 0, got %d", c.Reference.WaitIntervalMs)
	}

	switch c.Server.LogTheme {
	case "", "gruvbox", "everforest":
	default:
		return errors.WithHint(
			errors.Newf("server.log_theme %q is not a known theme", c.Server.LogTheme),
			"use gruvbox or everforest",
		)
	}

	return nil
}
