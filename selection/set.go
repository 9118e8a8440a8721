// Package selection maintains the ordered set of layers a user has chosen.
package selection

import (
	"github.com/poiesic/layerscout/core"
)

// Set is an insertion-ordered collection of selection entries, at most one
// per layer name. Only records with a service endpoint are admitted.
//
// A Set is not safe for concurrent use; the session guards it.
type Set struct {
	entries []core.SelectionEntry
	seq     uint64
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Add appends record unless it has no endpoint or its name is already
// present. Sequence numbers are never reused, even across Clear.
// It returns a snapshot of the entries after the call.
func (s *Set) Add(record core.CatalogRecord) []core.SelectionEntry {
	s.add(record)
	return s.Entries()
}

func (s *Set) add(record core.CatalogRecord) bool {
	if !record.HasEndpoint() || s.indexOf(record.Name) >= 0 {
		return false
	}
	s.seq++
	s.entries = append(s.entries, core.SelectionEntry{Record: record, Sequence: s.seq})
	return true
}

// Remove drops the entry named name. Unknown names are ignored.
// The relative order of the remaining entries is preserved.
func (s *Set) Remove(name string) []core.SelectionEntry {
	if i := s.indexOf(name); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	return s.Entries()
}

// Clear empties the set.
func (s *Set) Clear() {
	s.entries = nil
}

// ReplaceAll clears the set and then adds each record in order, applying
// the same rules as Add to each one.
func (s *Set) ReplaceAll(records []core.CatalogRecord) []core.SelectionEntry {
	s.Clear()
	for _, r := range records {
		s.add(r)
	}
	return s.Entries()
}

// Entries returns a copy of the entries in insertion order.
func (s *Set) Entries() []core.SelectionEntry {
	out := make([]core.SelectionEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Contains reports whether an entry named name is present.
func (s *Set) Contains(name string) bool {
	return s.indexOf(name) >= 0
}

func (s *Set) indexOf(name string) int {
	for i, e := range s.entries {
		if e.Record.Name == name {
			return i
		}
	}
	return -1
}
