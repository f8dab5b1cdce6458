// Package manual renders the reference manual as a Markdown virtual document.
//
// A manual URI is a source identity plus an optional query naming one kind:
// spec://system/built-in.md?macro renders only the macros of the built-in
// database. Entries appear in store order under one heading per kind.
package manual

import (
	"context"
	"net/url"
	"strings"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref"
	"github.com/fujidana/specref/sym"
)

// Scheme is the URI scheme of every manual document
const Scheme = "spec"

const (
	title    = "# __spec__ Reference Manual\n\n"
	citation = "The contents of this page are cited from the _Reference Manual_ section in " +
		"[PDF version](https://www.certif.com/downloads/css_docs/spec_man.pdf) of the " +
		"_User manual and Tutorials_, written by [Certified Scientific Software](https://www.certif.com/), " +
		"except where otherwise noted.\n\n"
)

// URI addresses the manual of src, restricted to one kind label unless
// label is empty or "all".
func URI(src ref.Source, label string) string {
	if label == "" || label == sym.AllLabel {
		return string(src)
	}
	return string(src) + "?" + url.QueryEscape(label)
}

// ParseURI splits a manual URI into its source and kind label. The label
// is empty when the whole source is requested.
func ParseURI(raw string) (ref.Source, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", errors.NewInvalidRequestError("malformed manual URI %q", raw)
	}
	if u.Scheme != Scheme || u.Host == "" {
		return "", "", errors.NewInvalidRequestError("manual URI %q must have the form %s://<authority>/<path>", raw, Scheme)
	}

	label, err := url.QueryUnescape(u.RawQuery)
	if err != nil {
		return "", "", errors.NewInvalidRequestError("malformed query in manual URI %q", raw)
	}
	if label == sym.AllLabel {
		label = ""
	}

	src := ref.Source(Scheme + "://" + u.Host + u.Path)
	return src, label, nil
}

// Render builds the Markdown for uri. It checks ctx before formatting and
// returns the context error untouched if the request was cancelled. An
// uninstalled source reports errors.ErrSourceUnavailable.
func Render(ctx context.Context, store *ref.Store, uri string) (string, error) {
	src, label, err := ParseURI(uri)
	if err != nil {
		return "", err
	}

	p, ok := store.Partition(src)
	if !ok {
		return "", errors.Wrapf(errors.ErrSourceUnavailable, "%s", src)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := RenderPartition(src, p, label)
	logger.ManualDebugw("Rendered reference manual",
		logger.FieldURI, uri,
		logger.FieldCount, len(doc))
	return doc, nil
}

// RenderPartition formats one partition. An empty label renders every kind;
// a label matching no kind renders the title alone.
func RenderPartition(src ref.Source, p *ref.Partition, label string) string {
	var b strings.Builder

	b.WriteString(title)
	if src == ref.SourceBuiltin {
		b.WriteString(citation)
	}

	for _, kind := range p.Kinds() {
		if label != "" && label != kind.Label() {
			continue
		}

		b.WriteString("## " + kind.Label() + "\n\n")

		m, _ := p.Map(kind)
		for _, ne := range m.Entries() {
			b.WriteString("### " + ne.Name + "\n\n")
			writeSignature(&b, ne.Entry.Signature, ne.Entry.Description)
			for _, o := range ne.Entry.Overloads {
				writeSignature(&b, o.Signature, o.Description)
			}
		}
	}
	return b.String()
}

func writeSignature(b *strings.Builder, signature, description string) {
	b.WriteString("`" + signature + "`")
	if description != "" {
		b.WriteString(" \u2014 " + description)
	}
	b.WriteString("\n\n")
}

// PickItem is one entry of the kind picker
type PickItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PickItems lists "all" followed by the kinds of p in order, each with its
// codicon prefix.
func PickItems(p *ref.Partition) []PickItem {
	items := []PickItem{{Key: sym.AllLabel, Label: sym.PickLabel(sym.AllLabel)}}
	for _, kind := range p.Kinds() {
		items = append(items, PickItem{Key: kind.Label(), Label: sym.PickLabel(kind.Label())})
	}
	return items
}
