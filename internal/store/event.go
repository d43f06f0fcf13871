package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceRow is the single row of global_sequence.
const sequenceRow = 1

// sequenceCounter numbers every event and snapshot from one counter, so rows
// in different tables can be put in a single order.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args := builder.Insert(sequenceTable.Name).
		Columns("id", "next_val").
		Values(sequenceRow, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next reserves and returns the next sequence number.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback()

	// Bumping first takes the write lock, so another process sharing the
	// file cannot read the same value.
	update, uargs := builder.Update(sequenceTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("id", sequenceRow)).
		Query()
	if _, err := tx.ExecContext(ctx, update, uargs...); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	sel, sargs := builder.Select("next_val").
		From(entsql.Table(sequenceTable.Name)).
		Where(entsql.EQ("id", sequenceRow)).
		Query()
	var next int64
	if err := tx.QueryRowContext(ctx, sel, sargs...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
