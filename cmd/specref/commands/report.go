package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref/mnemonic"
	"github.com/fujidana/specref/ref/snippet"
)

// skippedLine is a configuration line that did not parse
type skippedLine struct {
	Text   string
	Reason error
}

// verbosity reads the root -v count. A command run without the root
// command has no such flag and reports 0.
func verbosity(cmd *cobra.Command) int {
	v, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return 0
	}
	return v
}

// reportSummary prints an entry count at -v
func reportSummary(w io.Writer, v int, what string, n int) {
	if !logger.ShouldOutput(v, logger.OutputSummary) {
		return
	}
	fmt.Fprintf(w, "%d %s\n", n, what)
}

// reportSkipped lists lines that did not parse at -vv
func reportSkipped(w io.Writer, v int, section string, skipped []skippedLine) {
	if !logger.ShouldOutput(v, logger.OutputDropped) || len(skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "%d %s lines skipped:\n", len(skipped), section)
	for _, s := range skipped {
		fmt.Fprintf(w, "  %q: %v\n", s.Text, s.Reason)
	}
}

func skippedMnemonics(lines []string) []skippedLine {
	_, unmatched := mnemonic.Build(lines)
	out := make([]skippedLine, 0, len(unmatched))
	for _, u := range unmatched {
		out = append(out, skippedLine{Text: u.Line, Reason: u.Reason})
	}
	return out
}

// skippedTemplates re-parses the templates; names do not affect parsing
func skippedTemplates(templates []string) []skippedLine {
	_, unmatched := snippet.Compile(templates, nil, nil)
	out := make([]skippedLine, 0, len(unmatched))
	for _, u := range unmatched {
		out = append(out, skippedLine{Text: u.Template, Reason: u.Reason})
	}
	return out
}
