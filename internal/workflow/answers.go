package workflow

import (
	"context"
	"fmt"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/report"
)

// SubmitPolicy decides how complete the answers must be before submission.
type SubmitPolicy string

const (
	// PolicyAtLeastOne allows partial submission. Unanswered questions
	// are sent with an empty answer.
	PolicyAtLeastOne SubmitPolicy = "at-least-one"

	// PolicyAll requires a non-empty answer for every question.
	PolicyAll SubmitPolicy = "all"
)

// DefaultSubmitPolicy is used when no policy is configured.
const DefaultSubmitPolicy = PolicyAtLeastOne

// ParseSubmitPolicy parses a policy name. Empty selects the default.
func ParseSubmitPolicy(s string) (SubmitPolicy, error) {
	switch SubmitPolicy(s) {
	case "":
		return DefaultSubmitPolicy, nil
	case PolicyAtLeastOne, PolicyAll:
		return SubmitPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown submit policy %q (want %s or %s)", s, PolicyAtLeastOne, PolicyAll)
	}
}

// AnswerEvaluator scores a set of answers for a session.
type AnswerEvaluator interface {
	SubmitAnswers(ctx context.Context, sessionID string, answers []evalapi.AnswerPair) (*report.Report, error)
}

// AnswerCoordinator validates readiness and submits answers for evaluation.
type AnswerCoordinator struct {
	eval   AnswerEvaluator
	policy SubmitPolicy
}

func NewAnswerCoordinator(eval AnswerEvaluator, policy SubmitPolicy) *AnswerCoordinator {
	if policy == "" {
		policy = DefaultSubmitPolicy
	}
	return &AnswerCoordinator{eval: eval, policy: policy}
}

// Policy returns the configured completion policy.
func (c *AnswerCoordinator) Policy() SubmitPolicy { return c.policy }

// Submit checks, in order, the session id, the completion policy and
// that at least one answer is non-blank, then sends the answers. A
// missing report from the evaluator is returned as an empty report.
func (c *AnswerCoordinator) Submit(ctx context.Context, sessionID string, questions []string, answers map[int]string) (*report.Report, error) {
	if sessionID == "" {
		return nil, &ValidationError{Kind: NoSession}
	}

	pairs := BuildPayload(questions, answers)
	if c.policy == PolicyAll && !hasAllAnswers(pairs) {
		return nil, &ValidationError{Kind: IncompleteAnswers}
	}
	if !hasAnyAnswer(pairs) {
		return nil, &ValidationError{Kind: NoAnswers}
	}

	rep, err := c.eval.SubmitAnswers(ctx, sessionID, pairs)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		rep = &report.Report{}
	}
	return rep, nil
}
