// Package snippet compiles command templates into insertable snippet entries.
//
// A template is `leadingWord body... [# comment]`. The leading word becomes
// the entry key. Motor (%MOT) and counter (%CNT) markers are resolved twice:
// into a short display signature, and into an editor snippet body whose
// placeholders offer the currently configured mnemonics as choices.
package snippet

import (
	"regexp"
	"strings"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/ref"
)

const (
	MotorMarker   = "%MOT"
	CounterMarker = "%CNT"
)

var (
	// "mv ${1%MOT} ${2:pos} # motor move" -> body "mv ${1%MOT} ${2:pos}", key "mv", comment "motor move"
	templatePattern    = regexp.MustCompile(`^(([A-Za-z_][A-Za-z0-9_]*)\s+[^#]+?)\s*(#\s*(.*))?$`)
	placeholderPattern = regexp.MustCompile(`\$\{\d+:([^{}]+)\}`)
	choicePattern      = regexp.MustCompile(`\$\{\d+\|[^|]+\|\}`)
)

// Result is the outcome of parsing one template: Parsed or Unmatched.
type Result interface {
	isResult()
}

// Parsed is a template split into its parts.
type Parsed struct {
	Key     string
	Body    string
	Comment string
}

// Unmatched is a template that does not have the expected shape.
// Reason wraps errors.ErrMalformedConfigEntry.
type Unmatched struct {
	Template string
	Reason   error
}

func (Parsed) isResult()    {}
func (Unmatched) isResult() {}

// Parse splits a template into key, invocation body and trailing comment.
func Parse(template string) Result {
	m := templatePattern.FindStringSubmatch(strings.TrimSpace(template))
	if m == nil {
		return Unmatched{
			Template: template,
			Reason:   errors.Wrapf(errors.ErrMalformedConfigEntry, "snippet template %q must be a command word followed by arguments", template),
		}
	}
	return Parsed{Key: m[2], Body: m[1], Comment: strings.TrimSpace(m[4])}
}

// Signature renders the one-line display form of a template body.
func Signature(body string) string {
	s := strings.ReplaceAll(body, MotorMarker, ":motor")
	s = strings.ReplaceAll(s, CounterMarker, ":counter")
	s = placeholderPattern.ReplaceAllString(s, "$1")
	return choicePattern.ReplaceAllString(s, "choice")
}

// Body renders the insertable snippet. Markers become a choice list of the
// given names, or a plain named placeholder when the list is empty.
func Body(body string, motors, counters []string) string {
	s := strings.ReplaceAll(body, MotorMarker, choiceOrPlaceholder(motors, "motor"))
	return strings.ReplaceAll(s, CounterMarker, choiceOrPlaceholder(counters, "counter"))
}

// choiceOrPlaceholder returns the text that completes "${n" into either
// "${n|a,b|}" or "${n:fallback}".
func choiceOrPlaceholder(names []string, fallback string) string {
	if len(names) == 0 {
		return ":" + fallback
	}
	return "|" + strings.Join(names, ",") + "|"
}

// Compile parses every template and renders it against the mnemonic names.
// Unparseable templates are skipped and returned; a later template with the
// same key replaces an earlier one.
func Compile(templates, motors, counters []string) (*ref.EntryMap, []Unmatched) {
	m := ref.NewEntryMap()
	var skipped []Unmatched

	for _, template := range templates {
		switch r := Parse(template).(type) {
		case Parsed:
			m.Set(r.Key, ref.Entry{
				Signature:   Signature(r.Body),
				Description: r.Comment,
				Snippet:     Body(r.Body, motors, counters),
			})
		case Unmatched:
			skipped = append(skipped, r)
		}
	}
	return m, skipped
}
