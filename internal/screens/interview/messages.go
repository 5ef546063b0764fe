package interview

import "time"

// questionsDoneMsg is sent when a question request has resolved.
type questionsDoneMsg struct {
	Err error
}

// submitDoneMsg is sent when an answer submission has resolved.
type submitDoneMsg struct {
	Err error
}

// cleanupDoneMsg is sent when a discarded session has been released.
type cleanupDoneMsg struct {
	SessionID string
	Err       error
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
