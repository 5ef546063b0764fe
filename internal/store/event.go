package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequencer hands out one ordering shared by request events and attempts,
// so the two logs can be interleaved. It is seeded from the highest
// sequence already stored and relies on the store being the only writer.
type sequencer struct {
	mu   sync.Mutex
	last int64
}

func newSequencer(ctx context.Context, db *sql.DB) (*sequencer, error) {
	s := &sequencer{}
	for _, table := range []string{requestEventsTable, attemptsTable} {
		query, args := builder().
			Select(entsql.Max("sequence")).
			From(entsql.Table(table)).
			Query()
		var maxSeq sql.NullInt64
		if err := db.QueryRowContext(ctx, query, args...).Scan(&maxSeq); err != nil {
			return nil, fmt.Errorf("read %s sequence: %w", table, err)
		}
		s.last = max(s.last, maxSeq.Int64)
	}
	return s, nil
}

// Next returns the next sequence number.
func (s *sequencer) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}
