package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter orders LLM calls and achievement unlocks on one shared
// timeline. The row lives in global_sequence; see schema.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) *sequenceCounter {
	return &sequenceCounter{db: db}
}

// Next claims the next sequence number.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	row := c.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("claim sequence: %w", err)
	}
	return n, nil
}
