// Package apiref loads the built-in API reference database.
//
// The database is one document with five required groups (constants,
// variables, macros, functions, keywords), each mapping a symbol name to
// its signature, description and optional overloads. JSON is canonical;
// YAML and TOML carry the same shape. Entry order in the document is kept.
package apiref

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/ref"
)

// Format identifies the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// group binds a document key to the kind its entries are installed under.
type group struct {
	key  string
	kind ref.Kind
}

// groups is also the install order of kinds in the resulting partition.
var groups = []group{
	{"constants", ref.KindConstant},
	{"variables", ref.KindVariable},
	{"macros", ref.KindMacro},
	{"functions", ref.KindFunction},
	{"keywords", ref.KindKeyword},
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.NewInvalidRequestError("unsupported API reference extension %q", filepath.Ext(path)),
		"use a .json, .yaml, .yml or .toml file",
	)
}

// LoadFile reads and decodes the database at path.
func LoadFile(path string) (*ref.Partition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrSourceUnavailable, "read API reference %s: %v", path, err),
			"set reference.path to the location of the API reference database",
		)
	}

	p, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return p, nil
}

// Decode reads a whole database document. Every failure wraps
// errors.ErrMalformedDatabase.
func Decode(r io.Reader, format Format) (*ref.Partition, error) {
	var (
		doc document
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(r)
	case FormatYAML:
		doc, err = decodeYAML(r)
	case FormatTOML:
		doc, err = decodeTOML(r)
	default:
		return nil, errors.NewInvalidRequestError("unknown API reference format %q", format)
	}
	if err != nil {
		return nil, errors.Mark(err, errors.ErrMalformedDatabase)
	}
	return doc.partition()
}

// rawPosition is the 1-based position written by the manual extractor.
type rawPosition struct {
	Offset int `json:"offset" yaml:"offset" toml:"offset"`
	Line   int `json:"line" yaml:"line" toml:"line"`
	Column int `json:"column" yaml:"column" toml:"column"`
}

// position converts to 0-based; zero or negative input clamps to 0.
func (p rawPosition) position() ref.Position {
	return ref.Position{Line: max(p.Line-1, 0), Character: max(p.Column-1, 0)}
}

type rawRange struct {
	Start rawPosition `json:"start" yaml:"start" toml:"start"`
	End   rawPosition `json:"end" yaml:"end" toml:"end"`
}

type rawOverload struct {
	Signature   string `json:"signature" yaml:"signature" toml:"signature"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

type rawEntry struct {
	Signature   string        `json:"signature" yaml:"signature" toml:"signature"`
	Description string        `json:"description" yaml:"description" toml:"description"`
	Comments    string        `json:"comments" yaml:"comments" toml:"comments"`
	Snippet     string        `json:"snippet" yaml:"snippet" toml:"snippet"`
	Location    *rawRange     `json:"location" yaml:"location" toml:"location"`
	Overloads   []rawOverload `json:"overloads" yaml:"overloads" toml:"overloads"`
}

func (r rawEntry) entry() ref.Entry {
	e := ref.Entry{
		Signature:   r.Signature,
		Description: r.Description,
		Snippet:     r.Snippet,
	}
	// older extractors wrote the description under "comments"
	if e.Description == "" {
		e.Description = r.Comments
	}
	if r.Location != nil {
		e.Location = &ref.Range{
			Start: r.Location.Start.position(),
			End:   r.Location.End.position(),
		}
	}
	for _, o := range r.Overloads {
		e.Overloads = append(e.Overloads, ref.Overload(o))
	}
	return e
}

// validate rejects entries and overloads without a signature
func (r rawEntry) validate() error {
	if r.Signature == "" {
		return errors.NewMalformedDatabaseError("has no signature")
	}
	for i, o := range r.Overloads {
		if o.Signature == "" {
			return errors.NewMalformedDatabaseError("overload %d has no signature", i)
		}
	}
	return nil
}

type namedRaw struct {
	name  string
	entry rawEntry
}

// document holds decoded groups keyed by group key, entries in document order.
type document map[string][]namedRaw

func (d document) partition() (*ref.Partition, error) {
	p := ref.NewPartition()
	for _, g := range groups {
		entries, ok := d[g.key]
		if !ok {
			return nil, errors.WithHint(
				errors.NewMalformedDatabaseError("group %q is missing", g.key),
				"the database must define constants, variables, macros, functions and keywords",
			)
		}
		m := ref.NewEntryMap()
		for _, ne := range entries {
			if err := ne.entry.validate(); err != nil {
				return nil, errors.Wrapf(err, "%s.%s", g.key, ne.name)
			}
			m.Set(ne.name, ne.entry.entry())
		}
		p.Set(g.kind, m)
	}
	return p, nil
}

func isGroup(key string) bool {
	for _, g := range groups {
		if g.key == key {
			return true
		}
	}
	return false
}

// decodeJSON walks the token stream so object member order survives.
func decodeJSON(r io.Reader) (document, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	doc := make(document)
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		if !isGroup(key) {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, errors.Wrapf(err, "skip %q", key)
			}
			continue
		}

		entries, err := decodeJSONGroup(dec, key)
		if err != nil {
			return nil, err
		}
		doc[key] = entries
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, errors.Wrap(err, "after document")
		}
		return nil, errors.Newf("unexpected %v after document", tok)
	}
	return doc, nil
}

func decodeJSONGroup(dec *json.Decoder, key string) ([]namedRaw, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, errors.Wrapf(err, "group %q", key)
	}

	var entries []namedRaw
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "group %q", key)
		}
		var raw rawEntry
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, "%s.%s", key, name)
		}
		entries = append(entries, namedRaw{name: name, entry: raw})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, errors.Wrapf(err, "group %q", key)
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "read token")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Newf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", errors.Wrap(err, "read key")
	}
	s, ok := tok.(string)
	if !ok {
		return "", errors.Newf("expected object key, got %v", tok)
	}
	return s, nil
}

// decodeYAML goes through yaml.Node; mapping node content is in document order.
func decodeYAML(r io.Reader) (document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, errors.Wrap(err, "parse yaml")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("top level must be a mapping")
	}

	doc := make(document)
	top := root.Content[0]
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i].Value, top.Content[i+1]
		if !isGroup(key) {
			continue
		}
		if value.Kind != yaml.MappingNode {
			return nil, errors.Newf("group %q must be a mapping (line %d)", key, value.Line)
		}

		var entries []namedRaw
		for j := 0; j+1 < len(value.Content); j += 2 {
			name := value.Content[j].Value
			var raw rawEntry
			if err := value.Content[j+1].Decode(&raw); err != nil {
				return nil, errors.Wrapf(err, "%s.%s", key, name)
			}
			entries = append(entries, namedRaw{name: name, entry: raw})
		}
		doc[key] = entries
	}
	return doc, nil
}

// decodeTOML decodes into plain maps and recovers entry order from
// MetaData.Keys, which lists keys as they appear in the document.
func decodeTOML(r io.Reader) (document, error) {
	var raw map[string]map[string]rawEntry
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse toml")
	}

	doc := make(document)
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			if isGroup(key[0]) {
				if _, ok := doc[key[0]]; !ok {
					doc[key[0]] = []namedRaw{}
				}
			}
		case 2:
			groupKey, name := key[0], key[1]
			if !isGroup(groupKey) || seen[groupKey+"\x00"+name] {
				continue
			}
			seen[groupKey+"\x00"+name] = true
			doc[groupKey] = append(doc[groupKey], namedRaw{name: name, entry: raw[groupKey][name]})
		}
	}
	return doc, nil
}
