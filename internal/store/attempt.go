package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const attemptsTable = "attempts"

var attemptColumns = []string{
	"id", "attempt_id", "sequence", "timestamp_ms", "session_id", "resume_name",
	"job_description", "questions", "answers", "report",
}

// attemptRepo implements AttemptRepo backed by SQLite.
type attemptRepo struct {
	db  *sql.DB
	seq *sequencer
}

func (r *attemptRepo) Append(ctx context.Context, data AttemptData) (string, error) {
	seqNum := r.seq.Next()

	questions, err := json.Marshal(nonNil(data.Questions))
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	answers, err := json.Marshal(nonNil(data.Answers))
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	rep := data.Report
	if len(rep) == 0 {
		rep = json.RawMessage("{}")
	}

	attemptID := uuid.New().String()
	query, args := builder().Insert(attemptsTable).
		Columns("attempt_id", "sequence", "timestamp_ms", "session_id", "resume_name",
			"job_description", "questions", "answers", "report").
		Values(attemptID, seqNum, time.Now().UnixMilli(), data.SessionID, data.ResumeName,
			data.JobDescription, string(questions), string(answers), string(rep)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("save attempt: %w", err)
	}
	return attemptID, nil
}

func (r *attemptRepo) List(ctx context.Context, opts QueryOpts) ([]Attempt, error) {
	sel := builder().Select(attemptColumns...).
		From(entsql.Table(attemptsTable)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

func (r *attemptRepo) Get(ctx context.Context, attemptID string) (*Attempt, error) {
	query, args := builder().Select(attemptColumns...).
		From(entsql.Table(attemptsTable)).
		Where(entsql.EQ("attempt_id", attemptID)).
		Query()

	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*Attempt, error) {
	var (
		a                           Attempt
		tsMs                        int64
		questions, answers, rawRept string
	)
	err := row.Scan(&a.ID, &a.AttemptID, &a.Sequence, &tsMs, &a.SessionID, &a.ResumeName,
		&a.JobDescription, &questions, &answers, &rawRept)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan attempt: %w", err)
	}
	a.Timestamp = time.UnixMilli(tsMs)
	if err := json.Unmarshal([]byte(questions), &a.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of %s: %w", a.AttemptID, err)
	}
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return nil, fmt.Errorf("decode answers of %s: %w", a.AttemptID, err)
	}
	a.Report = json.RawMessage(rawRept)
	return &a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
