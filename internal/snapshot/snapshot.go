// Package snapshot is the property snapshot and change-detection engine.
//
// A Snapshot is the full set of one entity's property cells at one point in
// time, built eagerly in declaration order from the entity kind's descriptor
// table. Diff compares two snapshots of the same entity and produces a
// minimal, declaration-ordered change list. Refresh merges a partially
// failed fresh build with the previous good snapshot so one transient fetch
// failure never destroys previously known-good data.
package snapshot

import (
	"github.com/voicemirror/voicemirror/internal/host"
	"github.com/voicemirror/voicemirror/internal/prop"
	"github.com/voicemirror/voicemirror/internal/schema"
)

// Cell is one named, independently-fallible value within a snapshot.
// Set exactly once at snapshot construction and immutable afterwards; cells
// never share identity across snapshots.
type Cell struct {
	Name  string
	Value prop.Result
}

// Snapshot holds the declared property cells of one entity instance.
// Cells are in declaration order; two snapshots are comparable iff they share
// entity identity and declared property set (guaranteed when both were built
// from the same table).
type Snapshot struct {
	Kind     schema.Kind
	ServerID uint64
	ID       uint64
	Version  int
	Cells    []Cell
}

// Build fetches every declared property eagerly, in declaration order.
// It never fails as a whole: individual fetch failures are contained in
// their cells and must not abort sibling fetches.
func Build(src host.Source, table schema.Table, ref host.EntityRef) *Snapshot {
	cells := make([]Cell, len(table.Descriptors))
	for i, d := range table.Descriptors {
		cells[i] = Cell{Name: d.Name, Value: d.Fetch(src, ref)}
	}
	return &Snapshot{
		Kind:     table.Kind,
		ServerID: ref.ServerID,
		ID:       ref.ID,
		Version:  table.Version,
		Cells:    cells,
	}
}

// Refresh builds a fresh snapshot and merges it with the previous one:
// where the fresh fetch failed but the previous snapshot holds a good value,
// the good value is kept. Property fetches fail transiently right after
// create/move churn, before the host has populated the entity server-side;
// without this merge a normal operation sequence would spuriously report
// every property as failed.
//
// previous may be nil, in which case Refresh is plain Build.
func Refresh(src host.Source, table schema.Table, ref host.EntityRef, previous *Snapshot) *Snapshot {
	fresh := Build(src, table, ref)
	return mergeWithPrevious(fresh, previous)
}

// mergeWithPrevious keeps previous Ok values for cells whose fresh fetch
// failed. Fresh failures with no prior good value stay failed. The merge is
// positional: both snapshots were built from the same declared table.
func mergeWithPrevious(fresh, previous *Snapshot) *Snapshot {
	if previous == nil || len(previous.Cells) != len(fresh.Cells) {
		return fresh
	}
	for i := range fresh.Cells {
		if fresh.Cells[i].Value.IsOk() {
			continue
		}
		if prev := previous.Cells[i].Value; prev.IsOk() && previous.Cells[i].Name == fresh.Cells[i].Name {
			fresh.Cells[i].Value = prev
		}
	}
	return fresh
}

// Clone returns a copy with its own cell slice, so the receiver's memory
// cannot be aliased by consumers of a published terminal payload.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Cells = make([]Cell, len(s.Cells))
	copy(out.Cells, s.Cells)
	return &out
}

// Lookup returns the cell for a property name, or false if undeclared.
func (s *Snapshot) Lookup(name string) (Cell, bool) {
	for _, c := range s.Cells {
		if c.Name == name {
			return c, true
		}
	}
	return Cell{}, false
}
