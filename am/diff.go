package am

import "slices"

// Changes reports which sections differ between two configurations
type Changes struct {
	Reference bool // path or wait budget
	Motors    bool
	Counters  bool
	Snippets  bool
	Editor    bool // editor flags other than snippets
	Server    bool
}

// Any reports whether anything changed
func (c Changes) Any() bool {
	return c.Reference || c.Motors || c.Counters || c.Snippets || c.Editor || c.Server
}

// Diff compares two configurations section by section.
// A nil old config counts as everything changed.
func Diff(old, new *Config) Changes {
	if old == nil {
		return Changes{Reference: true, Motors: true, Counters: true, Snippets: true, Editor: true, Server: true}
	}
	if new == nil {
		return Changes{}
	}

	return Changes{
		Reference: old.Reference != new.Reference,
		Motors:    !slices.Equal(old.Mnemonic.Motors, new.Mnemonic.Motors),
		Counters:  !slices.Equal(old.Mnemonic.Counters, new.Mnemonic.Counters),
		Snippets:  !slices.Equal(old.Editor.CodeSnippets, new.Editor.CodeSnippets),
		Editor:    old.Editor.ShowReferenceManualInPreview != new.Editor.ShowReferenceManualInPreview,
		Server: old.Server.WebSocketAddr != new.Server.WebSocketAddr ||
			old.Server.LogTheme != new.Server.LogTheme ||
			!slices.Equal(old.Server.AllowedOrigins, new.Server.AllowedOrigins),
	}
}
