package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/voicemirror/voicemirror/internal/engine"
)

// Record writes one published change set as journal rows, atomically.
//
// Created and updated sets produce one row per property change; removed sets
// produce one row per cell of the final snapshot, so the last known state of
// a departed entity survives in the journal. Updated sets with an empty
// change list write nothing.
func (j *Journal) Record(ctx context.Context, cs engine.ChangeSet) error {
	if cs.Reason != engine.ReasonRemoved && len(cs.Changes) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record change set: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO change_records
		(session, kind, entity_id, reason, property, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record change set: %w", err)
	}
	defer stmt.Close()

	switch cs.Reason {
	case engine.ReasonRemoved:
		if cs.Final == nil {
			break
		}
		for _, cell := range cs.Final.Cells {
			_, err := stmt.ExecContext(ctx,
				cs.SessionToken,
				cs.Kind.String(),
				int64(cs.EntityID),
				cs.Reason.String(),
				cell.Name,
				sql.NullString{},
				cell.Value.Render(),
			)
			if err != nil {
				return fmt.Errorf("record removal of %s %d: %w", cs.Kind, cs.EntityID, err)
			}
		}
	default:
		for _, c := range cs.Changes {
			old := sql.NullString{}
			if c.Old != nil {
				old = sql.NullString{String: c.Old.Render(), Valid: true}
			}
			_, err := stmt.ExecContext(ctx,
				cs.SessionToken,
				cs.Kind.String(),
				int64(cs.EntityID),
				cs.Reason.String(),
				c.Property,
				old,
				c.New.Render(),
			)
			if err != nil {
				return fmt.Errorf("record change to %s %d: %w", cs.Kind, cs.EntityID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record change set: %w", err)
	}
	return nil
}

// Recorder adapts the journal into an engine subscriber. Write failures are
// reported through the supplied callback rather than panicking into the
// host's callback thread; pass nil to discard them.
func (j *Journal) Recorder(ctx context.Context, onErr func(error)) engine.Subscriber {
	return func(cs engine.ChangeSet) {
		if err := j.Record(ctx, cs); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
