// Package am loads specref configuration ("am" as in "I am configured so").
//
// Values cascade, lowest precedence first: built-in defaults,
// /etc/specref/config.toml, ~/.specref/config.toml, the nearest
// specref.toml walking up from the working directory, SPECREF_* env vars.
package am

import "time"

// Config represents the specref configuration
type Config struct {
	Reference ReferenceConfig `mapstructure:"reference" json:"reference" yaml:"reference" toml:"reference"`
	Mnemonic  MnemonicConfig  `mapstructure:"mnemonic" json:"mnemonic" yaml:"mnemonic" toml:"mnemonic"`
	Editor    EditorConfig    `mapstructure:"editor" json:"editor" yaml:"editor" toml:"editor"`
	Server    ServerConfig    `mapstructure:"server" json:"server" yaml:"server" toml:"server"`
}

// ReferenceConfig locates the built-in API reference database and bounds
// how long commands wait for it to load.
type ReferenceConfig struct {
	Path           string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`                                                 // .json, .yaml/.yml or .toml
	WaitAttempts   int    `mapstructure:"wait_attempts" json:"wait_attempts" yaml:"wait_attempts" toml:"wait_attempts"`             // polls before giving up (default: 5)
	WaitIntervalMs int    `mapstructure:"wait_interval_ms" json:"wait_interval_ms" yaml:"wait_interval_ms" toml:"wait_interval_ms"` // pause between polls (default: 50)
}

// MnemonicConfig lists user mnemonics as "name # description" lines
type MnemonicConfig struct {
	Motors   []string `mapstructure:"motors" json:"motors" yaml:"motors" toml:"motors"`
	Counters []string `mapstructure:"counters" json:"counters" yaml:"counters" toml:"counters"`
}

// EditorConfig carries editor-facing options
type EditorConfig struct {
	CodeSnippets                 []string `mapstructure:"code_snippets" json:"code_snippets" yaml:"code_snippets" toml:"code_snippets"` // extra snippet templates, after the built-in ones
	ShowReferenceManualInPreview bool     `mapstructure:"show_reference_manual_in_preview" json:"show_reference_manual_in_preview" yaml:"show_reference_manual_in_preview" toml:"show_reference_manual_in_preview"`
}

// ServerConfig configures the LSP transports
type ServerConfig struct {
	WebSocketAddr  string   `mapstructure:"websocket_addr" json:"websocket_addr" yaml:"websocket_addr" toml:"websocket_addr"` // empty = stdio only
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	LogTheme       string   `mapstructure:"log_theme" json:"log_theme" yaml:"log_theme" toml:"log_theme"` // Color theme: gruvbox, everforest
}

const (
	DefaultWaitAttempts   = 5
	DefaultWaitIntervalMs = 50
	DefaultLogTheme       = "everforest"

	ProjectConfigName = "specref.toml"
	UserConfigDir     = ".specref"
	SystemConfigPath  = "/etc/specref/config.toml"
	EnvPrefix         = "SPECREF"
)

// WaitInterval returns the pause between built-in load polls
func (c *Config) WaitInterval() time.Duration {
	return time.Duration(c.Reference.WaitIntervalMs) * time.Millisecond
}

// MnemonicLines returns the configured lines for a mnemonic section
// ("motors" or "counters"); unknown sections have no lines.
func (c *Config) MnemonicLines(section string) []string {
	switch section {
	case "motors":
		return c.Mnemonic.Motors
	case "counters":
		return c.Mnemonic.Counters
	}
	return nil
}
