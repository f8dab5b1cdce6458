package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
// Every key needs a default so SPECREF_* env vars can reach it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("reference.path", "")
	v.SetDefault("reference.wait_attempts", DefaultWaitAttempts)
	v.SetDefault("reference.wait_interval_ms", DefaultWaitIntervalMs)

	v.SetDefault("mnemonic.motors", []string{})
	v.SetDefault("mnemonic.counters", []string{})

	v.SetDefault("editor.code_snippets", []string{})
	v.SetDefault("editor.show_reference_manual_in_preview", true)

	v.SetDefault("server.websocket_addr", "")
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
		"vscode-webview://",
	})
	v.SetDefault("server.log_theme", DefaultLogTheme)
}

// GetServerLogTheme returns the log theme (default: everforest)
func (c *Config) GetServerLogTheme() string {
	if c.Server.LogTheme == "" {
		return DefaultLogTheme
	}
	return c.Server.LogTheme
}
