// Package mnemonic turns user-configured "label # description" lines into
// enum-member reference entries.
package mnemonic

import (
	"regexp"
	"strings"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/ref"
)

// MaxNameLength matches the identifier limit of spec mnemonics.
const MaxNameLength = 7

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,6}$`)

// Class is a family of mnemonics sharing one source identity.
type Class struct {
	// Name is the singular noun used as the snippet placeholder ("motor").
	Name string
	// Section is the configuration list the class is read from.
	Section string
	Source  ref.Source
}

var (
	Motor   = Class{Name: "motor", Section: "motors", Source: ref.SourceMotor}
	Counter = Class{Name: "counter", Section: "counters", Source: ref.SourceCounter}
)

// Classes lists the mnemonic classes in rebuild order.
var Classes = []Class{Motor, Counter}

// Result is the outcome of parsing one line: Parsed or Unmatched.
type Result interface {
	isResult()
}

// Parsed is a line that matched the grammar.
type Parsed struct {
	Name        string
	Description string
}

// Unmatched is a line that did not match. Reason wraps errors.ErrMalformedConfigEntry.
type Unmatched struct {
	Line   string
	Reason error
}

func (Parsed) isResult()    {}
func (Unmatched) isResult() {}

// Parse matches `name [ "#" description ]` after trimming surrounding
// whitespace. An empty description after "#" counts as absent.
func Parse(line string) Result {
	trimmed := strings.TrimSpace(line)

	name, description, hasComment := strings.Cut(trimmed, "#")
	name = strings.TrimSpace(name)

	if !namePattern.MatchString(name) {
		return Unmatched{
			Line:   line,
			Reason: errors.Wrapf(errors.ErrMalformedConfigEntry, "mnemonic %q is not an identifier of at most %d characters", name, MaxNameLength),
		}
	}

	p := Parsed{Name: name}
	if hasComment {
		p.Description = strings.TrimSpace(description)
	}
	return p
}

// Build parses every line into a fresh map. Unmatched lines are skipped and
// returned so callers can log them; duplicates overwrite in input order.
func Build(lines []string) (*ref.EntryMap, []Unmatched) {
	m := ref.NewEntryMap()
	var skipped []Unmatched

	for _, line := range lines {
		switch r := Parse(line).(type) {
		case Parsed:
			m.Set(r.Name, ref.Entry{Signature: r.Name, Description: r.Description})
		case Unmatched:
			skipped = append(skipped, r)
		}
	}
	return m, skipped
}
