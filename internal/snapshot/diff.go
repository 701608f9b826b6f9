package snapshot

import "github.com/voicemirror/voicemirror/internal/prop"

// Change records one property's transition between two snapshots.
// Old is nil when the property is newly observable (entity just appeared).
type Change struct {
	Property string
	Old      *prop.Result
	New      prop.Result
}

// Diff compares two snapshots of the same entity and returns the change list
// in the declaration order of the new snapshot. Pure function: neither input
// is mutated.
//
// Rules:
//   - old == nil models "entity newly observed": one change per property
//     with a nil Old, so creation shares the ordinary event vocabulary.
//   - A change is emitted only when old and new differ by value equality:
//     Ok/Ok with equal values is no change, Err/Err with equal kinds is no
//     change.
//   - Properties present only in old produce no record; absence is no
//     signal, not a deletion.
//
// When both snapshots come from the same table version the comparison is
// positional, O(P) with no lookups. Mismatched shapes (possible only across
// a table version change) fall back to a name lookup on old.
func Diff(old, new *Snapshot) []Change {
	if old == nil {
		changes := make([]Change, len(new.Cells))
		for i, c := range new.Cells {
			changes[i] = Change{Property: c.Name, New: c.Value}
		}
		return changes
	}

	aligned := old.Version == new.Version && len(old.Cells) == len(new.Cells)

	var changes []Change
	for i, c := range new.Cells {
		oldCell, known := lookupOld(old, i, c.Name, aligned)
		if !known {
			changes = append(changes, Change{Property: c.Name, New: c.Value})
			continue
		}
		if oldCell.Value.Equal(c.Value) {
			continue
		}
		oldVal := oldCell.Value
		changes = append(changes, Change{Property: c.Name, Old: &oldVal, New: c.Value})
	}
	return changes
}

func lookupOld(old *Snapshot, i int, name string, aligned bool) (Cell, bool) {
	if aligned && old.Cells[i].Name == name {
		return old.Cells[i], true
	}
	return old.Lookup(name)
}
