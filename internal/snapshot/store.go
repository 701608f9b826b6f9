package snapshot

import "github.com/voicemirror/voicemirror/internal/schema"

// Store owns the current snapshot per live entity, keyed by entity identity
// and scoped per entity kind. One Store belongs to one session: initialized
// empty on attach, cleared entirely on detach. Only the update coordinator
// reads or writes it; consumers see published change records, never the
// Store.
type Store struct {
	byKind map[schema.Kind]map[uint64]*Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byKind: make(map[schema.Kind]map[uint64]*Snapshot)}
}

// Get returns the current snapshot for an entity, if tracked.
func (s *Store) Get(kind schema.Kind, id uint64) (*Snapshot, bool) {
	snap, ok := s.byKind[kind][id]
	return snap, ok
}

// Put replaces the current snapshot for an entity.
func (s *Store) Put(kind schema.Kind, id uint64, snap *Snapshot) {
	m, ok := s.byKind[kind]
	if !ok {
		m = make(map[uint64]*Snapshot)
		s.byKind[kind] = m
	}
	m[id] = snap
}

// Remove retires an entity and returns its last snapshot. The snapshot's
// ownership transfers to nothing; a re-appearance under the same id starts
// from scratch.
func (s *Store) Remove(kind schema.Kind, id uint64) (*Snapshot, bool) {
	snap, ok := s.byKind[kind][id]
	if ok {
		delete(s.byKind[kind], id)
	}
	return snap, ok
}

// Len reports how many entities of a kind are tracked.
func (s *Store) Len(kind schema.Kind) int {
	return len(s.byKind[kind])
}

// Clear drops every tracked snapshot. Called on detach/disconnect.
func (s *Store) Clear() {
	s.byKind = make(map[schema.Kind]map[uint64]*Snapshot)
}
