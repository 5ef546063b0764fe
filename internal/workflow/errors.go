package workflow

import (
	"errors"

	"github.com/abhisek/interviewcoach/internal/evalapi"
)

var (
	// ErrBusy is returned when a request is started while another is
	// still outstanding.
	ErrBusy = errors.New("a request is already in progress")

	// ErrWrongStage is returned when an operation is not valid for the
	// current stage.
	ErrWrongStage = errors.New("operation not allowed in the current stage")

	// ErrStale is returned when a request resolves after the session was
	// restarted. Its result is discarded.
	ErrStale = errors.New("session restarted while the request was in flight")
)

// ValidationKind identifies which input precondition failed.
type ValidationKind int

const (
	MissingResume ValidationKind = iota
	EmptyJobDescription
	NoSession
	NoAnswers
	IncompleteAnswers
)

// ValidationError is a local precondition failure. It never involves a
// network call and is fixed by correcting the input.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingResume:
		return "resume is required"
	case EmptyJobDescription:
		return "job description is empty"
	case NoSession:
		return "session expired, regenerate questions"
	case NoAnswers:
		return "provide at least one answer"
	case IncompleteAnswers:
		return "answer all questions"
	default:
		return "invalid input"
	}
}

// Display returns the message shown to the candidate.
func (e *ValidationError) Display() string {
	switch e.Kind {
	case MissingResume, EmptyJobDescription:
		return "Please upload a resume and provide job description"
	case NoSession:
		return "Session expired. Please generate questions again."
	case NoAnswers:
		return "Please provide at least one answer before submitting."
	case IncompleteAnswers:
		return "Please answer all questions before submitting."
	default:
		return "Invalid input."
	}
}

// DisplayMessage maps an operation failure to the text shown to the
// candidate. op is evalapi.OpGenerateQuestions or evalapi.OpSubmitAnswers.
func DisplayMessage(op string, err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Display()
	}
	switch {
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	case errors.Is(err, ErrWrongStage):
		return "That action is not available right now."
	}

	var se *evalapi.ServiceError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		if op == evalapi.OpSubmitAnswers {
			return "Error evaluating answers"
		}
		return "Error generating questions"
	}

	if op == evalapi.OpSubmitAnswers {
		return "Error submitting answers. Please try again."
	}
	return "Error generating questions. Please try again."
}
