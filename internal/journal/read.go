package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// Entry is one journal row.
type Entry struct {
	Seq      int64  `json:"seq"`
	Session  string `json:"session"`
	Kind     string `json:"kind"`
	EntityID uint64 `json:"entity_id"`
	Reason   string `json:"reason"`
	Property string `json:"property"`
	// OldValue is empty for rows without a prior value (created sets and
	// removal rows).
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value"`
}

// Entries returns journal rows in publish order. A non-empty session filters
// to that session's rows; an empty session returns everything.
//
// Returns an empty slice, not nil, when no rows match.
func (j *Journal) Entries(ctx context.Context, session string) ([]Entry, error) {
	query := `
		SELECT seq, session, kind, entity_id, reason, property, old_value, new_value
		FROM change_records
	`
	var args []any
	if session != "" {
		query += " WHERE session = ?"
		args = append(args, session)
	}
	query += " ORDER BY seq ASC"

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e        Entry
			entityID int64
			old      sql.NullString
		)
		if err := rows.Scan(&e.Seq, &e.Session, &e.Kind, &entityID, &e.Reason, &e.Property, &old, &e.NewValue); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.EntityID = uint64(entityID)
		e.OldValue = old.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}

	return entries, nil
}

// Sessions returns the distinct session tokens present in the journal, in
// first-appearance order.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session FROM change_records GROUP BY session ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
