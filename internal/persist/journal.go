package persist

import (
	"context"
	"fmt"
	"time"
)

// EditEntry is one row of the stage edit journal: a placement, a removal,
// or a whole-world spawn or dispose.
type EditEntry struct {
	MapID string
	Op    string // "place", "remove", "spawn", "dispose", "reset"
	Key   string
	Type  string
	At    time.Time
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Append atomically writes a batch of journal entries in a single
// transaction. If it fails the batch stays buffered with the caller.
func (r *JournalRepo) Append(ctx context.Context, entries []EditEntry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO edit_journal (map_id, op, key, type, at)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.MapID, e.Op, e.Key, e.Type, e.At,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// MarkCompacted marks a map's journal entries as folded into a full save.
func (r *JournalRepo) MarkCompacted(ctx context.Context, mapID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE edit_journal SET compacted = TRUE WHERE map_id = $1 AND compacted = FALSE`,
		mapID,
	)
	return err
}

// PendingCount returns the number of journal entries not yet compacted.
func (r *JournalRepo) PendingCount(ctx context.Context, mapID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM edit_journal WHERE map_id = $1 AND compacted = FALSE`,
		mapID,
	).Scan(&n)
	return n, err
}
