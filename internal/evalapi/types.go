// Package evalapi is the HTTP client for the question-generation and
// answer-evaluation services.
package evalapi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/interviewcoach/internal/report"
)

// Endpoint paths and multipart field names of the evaluation service.
const (
	PathGenerateQuestions = "/run-interview-evaluation/"
	PathSubmitAnswers     = "/submit-mock-answers/"
	PathCleanupSession    = "/cleanup-session/"
	PathHealth            = "/health"

	FieldResume            = "resume"
	FieldJobDescription    = "job_description"
	FieldCandidateResponse = "candidate_response"
	FieldSessionID         = "session_id"
	FieldAnswers           = "answers"
)

// Operation names, used in errors and the request log.
const (
	OpGenerateQuestions = "generate_questions"
	OpSubmitAnswers     = "submit_answers"
	OpCleanupSession    = "cleanup_session"
	OpHealth            = "health"
)

// ResumeExtensions lists the accepted resume file types.
var ResumeExtensions = []string{".pdf", ".doc", ".docx"}

// Resume is an in-memory resume file ready for upload.
type Resume struct {
	Filename string
	Data     []byte
}

// LoadResume reads a resume file from disk.
func LoadResume(path string) (*Resume, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("resume path is empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range ResumeExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported resume type %q (want %s)", ext, strings.Join(ResumeExtensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("resume file %s is empty", filepath.Base(path))
	}
	return &Resume{Filename: filepath.Base(path), Data: data}, nil
}

// AnswerPair is one question with the candidate's answer.
type AnswerPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionSet is a successful question-generation result. SessionID
// correlates a later submission with this set.
type QuestionSet struct {
	Questions []string
	SessionID string
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Service is the full contract of the evaluation service.
type Service interface {
	// GenerateQuestions uploads the resume and job description and
	// returns the generated questions with their session id.
	GenerateQuestions(ctx context.Context, resume *Resume, jobDescription string) (*QuestionSet, error)

	// SubmitAnswers submits answers for evaluation. A success without a
	// report body returns an empty report, not an error.
	SubmitAnswers(ctx context.Context, sessionID string, answers []AnswerPair) (*report.Report, error)

	// CleanupSession releases server-side state of an abandoned session.
	CleanupSession(ctx context.Context, sessionID string) error

	// Health probes the service.
	Health(ctx context.Context) (*HealthStatus, error)
}
