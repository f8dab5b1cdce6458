package am

// ClientSettings are the values an editor sent over the LSP connection.
// A nil field was not sent and leaves the file value in place.
type ClientSettings struct {
	Motors                       *[]string
	Counters                     *[]string
	CodeSnippets                 *[]string
	ShowReferenceManualInPreview *bool
}

// Any reports whether any setting was sent
func (s ClientSettings) Any() bool {
	return s.Motors != nil || s.Counters != nil || s.CodeSnippets != nil || s.ShowReferenceManualInPreview != nil
}

// Merge returns s updated with the settings next carries
func (s ClientSettings) Merge(next ClientSettings) ClientSettings {
	if next.Motors != nil {
		s.Motors = next.Motors
	}
	if next.Counters != nil {
		s.Counters = next.Counters
	}
	if next.CodeSnippets != nil {
		s.CodeSnippets = next.CodeSnippets
	}
	if next.ShowReferenceManualInPreview != nil {
		s.ShowReferenceManualInPreview = next.ShowReferenceManualInPreview
	}
	return s
}

// Apply overlays s onto base. base is returned as is when nothing was
// sent and is never modified; a nil base counts as an empty Config.
func (s ClientSettings) Apply(base *Config) *Config {
	if !s.Any() && base != nil {
		return base
	}

	cfg := Config{}
	if base != nil {
		cfg = *base
	}
	if s.Motors != nil {
		cfg.Mnemonic.Motors = *s.Motors
	}
	if s.Counters != nil {
		cfg.Mnemonic.Counters = *s.Counters
	}
	if s.CodeSnippets != nil {
		cfg.Editor.CodeSnippets = *s.CodeSnippets
	}
	if s.ShowReferenceManualInPreview != nil {
		cfg.Editor.ShowReferenceManualInPreview = *s.ShowReferenceManualInPreview
	}
	return &cfg
}
