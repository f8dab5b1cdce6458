// Package ref holds the reference model shared by completion, hover and the
// reference manual: kinds, entries and the Store that groups them by source.
package ref

import (
	"strings"
	"sync"
	"time"
)

// Source is the stable identity of a group of entries. Sources are spelled as
// URIs so the same value addresses the reference manual document.
type Source string

const (
	SourceBuiltin        Source = "spec://system/built-in.md"
	SourceMotor          Source = "spec://system/mnemonic-motor.md"
	SourceCounter        Source = "spec://system/mnemonic-counter.md"
	SourceSnippet        Source = "spec://system/snippet.md"
	SourceActiveDocument Source = "spec://user/active-document.md"
)

// Partition is the kind -> EntryMap level of the Store. Kinds keep the
// order in which they were added.
type Partition struct {
	kinds []Kind
	maps  map[Kind]*EntryMap
}

// NewPartition creates a partition with an empty map for each kind.
func NewPartition(kinds ...Kind) *Partition {
	p := &Partition{maps: make(map[Kind]*EntryMap, len(kinds))}
	for _, k := range kinds {
		p.Set(k, NewEntryMap())
	}
	return p
}

// Set installs the map for a kind.
func (p *Partition) Set(kind Kind, m *EntryMap) {
	if _, exists := p.maps[kind]; !exists {
		p.kinds = append(p.kinds, kind)
	}
	p.maps[kind] = m
}

// Map returns the entries of one kind.
func (p *Partition) Map(kind Kind) (*EntryMap, bool) {
	if p == nil {
		return nil, false
	}
	m, ok := p.maps[kind]
	return m, ok
}

// Kinds returns the kinds in insertion order.
func (p *Partition) Kinds() []Kind {
	if p == nil {
		return nil
	}
	kinds := make([]Kind, len(p.kinds))
	copy(kinds, p.kinds)
	return kinds
}

// Len returns the total number of entries across kinds.
func (p *Partition) Len() int {
	n := 0
	for _, m := range p.maps {
		n += m.Len()
	}
	return n
}

// clone copies the kind level only; EntryMaps are shared.
func (p *Partition) clone() *Partition {
	c := &Partition{
		kinds: make([]Kind, len(p.kinds)),
		maps:  make(map[Kind]*EntryMap, len(p.maps)),
	}
	copy(c.kinds, p.kinds)
	for k, m := range p.maps {
		c.maps[k] = m
	}
	return c
}

// Match is one hit of a name lookup across sources.
type Match struct {
	Source Source
	Kind   Kind
	Name   string
	Entry  Entry
}

// Store is the source -> kind -> name registry.
//
// Partitions and EntryMaps handed to the Store must not be mutated
// afterwards: writers build a fresh map and swap it in with Install or
// Replace, so readers see either the old or the new contents, never a mix.
type Store struct {
	mu         sync.RWMutex
	sources    []Source
	partitions map[Source]*Partition
	lastUpdate time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{partitions: make(map[Source]*Partition)}
}

// Install replaces the whole partition of a source.
func (s *Store) Install(src Source, p *Partition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.partitions[src]; !exists {
		s.sources = append(s.sources, src)
	}
	s.partitions[src] = p
	s.lastUpdate = time.Now()
}

// Replace swaps the map of one (source, kind) pair. Other kinds of the same
// source, and other sources, are untouched.
func (s *Store) Replace(src Source, kind Kind, m *EntryMap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p *Partition
	if current, exists := s.partitions[src]; exists {
		p = current.clone()
	} else {
		p = NewPartition()
		s.sources = append(s.sources, src)
	}
	p.Set(kind, m)
	s.partitions[src] = p
	s.lastUpdate = time.Now()
}

// Clear empties one (source, kind) pair.
func (s *Store) Clear(src Source, kind Kind) {
	s.Replace(src, kind, NewEntryMap())
}

// Partition returns the partition of a source. A source that has not been
// installed yet reports false; that is absence, not an error.
func (s *Store) Partition(src Source) (*Partition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.partitions[src]
	return p, ok
}

// Entries returns the map of one (source, kind) pair.
func (s *Store) Entries(src Source, kind Kind) (*EntryMap, bool) {
	p, ok := s.Partition(src)
	if !ok {
		return nil, false
	}
	return p.Map(kind)
}

// Sources returns the installed sources in installation order.
func (s *Store) Sources() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make([]Source, len(s.sources))
	copy(sources, s.sources)
	return sources
}

// Lookup finds every entry named exactly name, across all sources.
func (s *Store) Lookup(name string) []Match {
	var matches []Match
	s.each(func(src Source, kind Kind, m *EntryMap) {
		if e, ok := m.Get(name); ok {
			matches = append(matches, Match{Source: src, Kind: kind, Name: name, Entry: e})
		}
	})
	return matches
}

// Search returns entries whose name starts with prefix, across all sources.
// An empty prefix returns everything. Matching is case-sensitive.
func (s *Store) Search(prefix string) []Match {
	var matches []Match
	s.each(func(src Source, kind Kind, m *EntryMap) {
		for _, ne := range m.Entries() {
			if strings.HasPrefix(ne.Name, prefix) {
				matches = append(matches, Match{Source: src, Kind: kind, Name: ne.Name, Entry: ne.Entry})
			}
		}
	})
	return matches
}

// LastUpdate returns when the store was last written.
func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// each walks a snapshot of the store; fn runs without the lock held.
func (s *Store) each(fn func(Source, Kind, *EntryMap)) {
	s.mu.RLock()
	sources := make([]Source, len(s.sources))
	copy(sources, s.sources)
	partitions := make([]*Partition, len(sources))
	for i, src := range sources {
		partitions[i] = s.partitions[src]
	}
	s.mu.RUnlock()

	for i, src := range sources {
		p := partitions[i]
		for _, kind := range p.Kinds() {
			m, _ := p.Map(kind)
			fn(src, kind, m)
		}
	}
}
