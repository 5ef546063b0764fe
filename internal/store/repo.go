package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures log queries.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	Operation string // request events only; empty matches all
}

// RequestEventData captures one call to the evaluation service.
type RequestEventData struct {
	Operation    string
	BaseURL      string
	SessionID    string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEvent is a stored RequestEventData.
type RequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// EventRepo is the append-only log of service calls.
type EventRepo interface {
	// AppendRequest records a service call.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequests returns request events, newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)
}

// AttemptData captures one completed practice attempt: the questions,
// the submitted answers and the raw report.
type AttemptData struct {
	SessionID      string
	ResumeName     string
	JobDescription string
	Questions      []string
	Answers        []string
	Report         json.RawMessage
}

// Attempt is a stored AttemptData.
type Attempt struct {
	ID        int64
	AttemptID string
	Sequence  int64
	Timestamp time.Time
	AttemptData
}

// AttemptRepo stores completed attempts.
type AttemptRepo interface {
	// Append records an attempt and returns its generated attempt id.
	Append(ctx context.Context, data AttemptData) (string, error)

	// List returns attempts, newest first.
	List(ctx context.Context, opts QueryOpts) ([]Attempt, error)

	// Get returns the attempt with the given attempt id, or nil if none.
	Get(ctx context.Context, attemptID string) (*Attempt, error)
}
