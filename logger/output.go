package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled.
//
// Unlike log levels, categories decide WHAT is printed by commands that
// write straight to the terminal (snippets, mnemonics) and whether the
// server traces protocol traffic.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // command output

	// Level 1 (-v)
	OutputSummary // entry counts per source

	// Level 2 (-vv)
	OutputDropped // mnemonic lines and templates that did not parse

	// Level 3 (-vvv)
	OutputProtocol // raw LSP traffic
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:  VerbosityUser,
	OutputSummary:  VerbosityInfo,
	OutputDropped:  VerbosityDebug,
	OutputProtocol: VerbosityTrace,
}

var categoryNames = map[OutputCategory]string{
	OutputResults:  "results",
	OutputSummary:  "summary",
	OutputDropped:  "dropped",
	OutputProtocol: "protocol",
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
