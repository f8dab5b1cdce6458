package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryMap_KeepsInsertionOrder(t *testing.T) {
	m := NewEntryMap()
	m.Set("tth", Entry{Signature: "tth"})
	m.Set("th", Entry{Signature: "th"})
	m.Set("chi", Entry{Signature: "chi"})

	assert.Equal(t, []string{"tth", "th", "chi"}, m.Names())
}

func TestEntryMap_OverwriteKeepsPosition(t *testing.T) {
	m := NewEntryMap()
	m.Set("th", Entry{Signature: "th", Description: "first"})
	m.Set("tth", Entry{Signature: "tth"})
	m.Set("th", Entry{Signature: "th", Description: "second"})

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"th", "tth"}, m.Names())
	e, ok := m.Get("th")
	require.True(t, ok)
	assert.Equal(t, "second", e.Description)
}

func TestEntryMap_NamesAreCaseSensitive(t *testing.T) {
	m := NewEntryMap()
	m.Set("TH", Entry{Signature: "TH"})
	_, ok := m.Get("th")
	assert.False(t, ok)
}

func TestEntryMap_NilIsEmpty(t *testing.T) {
	var m *EntryMap
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Names())
	_, ok := m.Get("x")
	assert.False(t, ok)
}

func TestStore_AbsentSourceIsNotAnError(t *testing.T) {
	s := NewStore()
	_, ok := s.Partition(SourceBuiltin)
	assert.False(t, ok)
	_, ok = s.Entries(SourceBuiltin, KindConstant)
	assert.False(t, ok)
}

func TestStore_ReplaceIsolatesPairs(t *testing.T) {
	s := NewStore()

	motors := NewEntryMap()
	motors.Set("th", Entry{Signature: "th"})
	s.Replace(SourceMotor, KindEnum, motors)

	counters := NewEntryMap()
	counters.Set("sec", Entry{Signature: "sec"})
	s.Replace(SourceCounter, KindEnum, counters)

	macros := NewEntryMap()
	macros.Set("mymac", Entry{Signature: "mymac"})
	s.Replace(SourceMotor, KindMacro, macros)

	s.Clear(SourceMotor, KindEnum)

	m, ok := s.Entries(SourceMotor, KindEnum)
	require.True(t, ok)
	assert.Equal(t, 0, m.Len())

	m, ok = s.Entries(SourceMotor, KindMacro)
	require.True(t, ok)
	assert.Equal(t, 1, m.Len(), "clearing one kind must not touch another kind of the same source")

	m, ok = s.Entries(SourceCounter, KindEnum)
	require.True(t, ok)
	assert.Equal(t, 1, m.Len(), "clearing one source must not touch another source")
}

func TestStore_ReplaceDoesNotMutatePublishedPartition(t *testing.T) {
	s := NewStore()
	s.Replace(SourceMotor, KindEnum, NewEntryMap())
	before, _ := s.Partition(SourceMotor)

	s.Replace(SourceMotor, KindMacro, NewEntryMap())

	assert.Equal(t, []Kind{KindEnum}, before.Kinds(), "readers holding the old partition keep a stable view")
	after, _ := s.Partition(SourceMotor)
	assert.Equal(t, []Kind{KindEnum, KindMacro}, after.Kinds())
}

func TestStore_LookupAndSearch(t *testing.T) {
	s := NewStore()

	builtin := NewPartition(KindConstant, KindMacro)
	consts, _ := builtin.Map(KindConstant)
	consts.Set("PI", Entry{Signature: "PI"})
	macros, _ := builtin.Map(KindMacro)
	macros.Set("mv", Entry{Signature: "mv motor pos"})
	s.Install(SourceBuiltin, builtin)

	snippets := NewEntryMap()
	snippets.Set("mv", Entry{Signature: "mv motor pos", Snippet: "mv ${1:motor} ${2:pos}"})
	snippets.Set("mvr", Entry{Signature: "mvr motor pos", Snippet: "mvr ${1:motor} ${2:pos}"})
	s.Replace(SourceSnippet, KindSnippet, snippets)

	hits := s.Lookup("mv")
	require.Len(t, hits, 2)
	assert.Equal(t, SourceBuiltin, hits[0].Source)
	assert.Equal(t, KindMacro, hits[0].Kind)
	assert.Equal(t, SourceSnippet, hits[1].Source)
	assert.True(t, hits[1].Entry.Insertable())

	assert.Len(t, s.Search("mv"), 3)
	assert.Len(t, s.Search(""), 4)
	assert.Empty(t, s.Search("pi"))

	assert.Equal(t, []Source{SourceBuiltin, SourceSnippet}, s.Sources())
	assert.False(t, s.LastUpdate().IsZero())
}
