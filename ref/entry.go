package ref

// Position is a zero-based line/character pair.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Overload is an alternate call form of a built-in macro or function.
type Overload struct {
	Signature   string `json:"signature"`
	Description string `json:"description,omitempty"`
}

// Entry describes one reference symbol.
// An empty Description or Snippet means the field is absent.
type Entry struct {
	Signature   string     `json:"signature"`
	Description string     `json:"description,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	Location    *Range     `json:"location,omitempty"`
	Overloads   []Overload `json:"overloads,omitempty"`
}

// Insertable reports whether the entry carries a snippet body.
func (e Entry) Insertable() bool {
	return e.Snippet != ""
}

// NamedEntry pairs an entry with its key.
type NamedEntry struct {
	Name  string
	Entry Entry
}

// EntryMap is an insertion-ordered name -> Entry map.
// Re-setting an existing name replaces its entry and keeps its position.
type EntryMap struct {
	names   []string
	entries map[string]Entry
}

// NewEntryMap creates an empty map.
func NewEntryMap() *EntryMap {
	return &EntryMap{entries: make(map[string]Entry)}
}

// Set installs or overwrites an entry.
func (m *EntryMap) Set(name string, e Entry) {
	if _, exists := m.entries[name]; !exists {
		m.names = append(m.names, name)
	}
	m.entries[name] = e
}

// Get returns the entry stored under name.
func (m *EntryMap) Get(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[name]
	return e, ok
}

// Len returns the number of entries.
func (m *EntryMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns the keys in insertion order.
func (m *EntryMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Entries returns the entries in insertion order.
func (m *EntryMap) Entries() []NamedEntry {
	if m == nil {
		return nil
	}
	out := make([]NamedEntry, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, NamedEntry{Name: name, Entry: m.entries[name]})
	}
	return out
}

// Clear removes every entry.
func (m *EntryMap) Clear() {
	m.names = nil
	m.entries = make(map[string]Entry)
}
