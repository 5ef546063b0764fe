package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/interviewcoach/internal/evalapi"
)

// BuildPayload pairs every question with its answer in question order.
// Missing answers become "".
func BuildPayload(questions []string, answers map[int]string) []evalapi.AnswerPair {
	pairs := make([]evalapi.AnswerPair, len(questions))
	for i, q := range questions {
		pairs[i] = evalapi.AnswerPair{Question: q, Answer: answers[i]}
	}
	return pairs
}

// ParseAnswerMap converts string-keyed answers ("0", "1", ...) into an
// index-keyed answer map.
func ParseAnswerMap(raw map[string]string) (map[int]string, error) {
	answers := make(map[int]string, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid answer key %q: want a question index", k)
		}
		answers[idx] = v
	}
	return answers, nil
}

func hasAnyAnswer(pairs []evalapi.AnswerPair) bool {
	for _, p := range pairs {
		if trimmed(p.Answer) != "" {
			return true
		}
	}
	return false
}

func hasAllAnswers(pairs []evalapi.AnswerPair) bool {
	for _, p := range pairs {
		if trimmed(p.Answer) == "" {
			return false
		}
	}
	return true
}

func trimmed(s string) string { return strings.TrimSpace(s) }
