package workflow

import (
	"context"
	"strings"

	"github.com/abhisek/interviewcoach/internal/evalapi"
)

// QuestionGenerator produces interview questions for a resume and job
// description.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, resume *evalapi.Resume, jobDescription string) (*evalapi.QuestionSet, error)
}

// QuestionCoordinator validates intake input and requests questions.
type QuestionCoordinator struct {
	gen QuestionGenerator
}

func NewQuestionCoordinator(gen QuestionGenerator) *QuestionCoordinator {
	return &QuestionCoordinator{gen: gen}
}

// Request validates the input and asks the generator for questions.
// Invalid input returns a ValidationError without calling the generator.
// Failures are never retried.
func (c *QuestionCoordinator) Request(ctx context.Context, resume *evalapi.Resume, jobDescription string) (*evalapi.QuestionSet, error) {
	if resume == nil {
		return nil, &ValidationError{Kind: MissingResume}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &ValidationError{Kind: EmptyJobDescription}
	}

	qs, err := c.gen.GenerateQuestions(ctx, resume, jobDescription)
	if err != nil {
		return nil, err
	}
	return qs, nil
}
