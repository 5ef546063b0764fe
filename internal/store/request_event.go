package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const requestEventsTable = "request_events"

// eventRepo implements EventRepo backed by SQLite.
type eventRepo struct {
	db  *sql.DB
	seq *sequencer
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum := r.seq.Next()

	query, args := builder().Insert(requestEventsTable).
		Columns("sequence", "timestamp_ms", "operation", "base_url", "session_id",
			"latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UnixMilli(), data.Operation, data.BaseURL, data.SessionID,
			data.LatencyMs, boolToInt(data.Success), data.ErrorMessage).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	sel := builder().Select("id", "sequence", "timestamp_ms", "operation", "base_url",
		"session_id", "latency_ms", "success", "error_message").
		From(entsql.Table(requestEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Operation != "" {
		sel.Where(entsql.EQ("operation", opts.Operation))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []RequestEvent
	for rows.Next() {
		var (
			e       RequestEvent
			tsMs    int64
			success int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &tsMs, &e.Operation, &e.BaseURL,
			&e.SessionID, &e.LatencyMs, &success, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		e.Timestamp = time.UnixMilli(tsMs)
		e.Success = success != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
