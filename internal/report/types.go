package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wire keys of the four report sections.
const (
	KeyResumeAnalysis    = "resume_analysis"
	KeyMockResponse      = "mock_response"
	KeySuccessPrediction = "success_prediction"
	KeyGapFixer          = "gap_fixer"
)

// Report is the evaluation result returned after answer submission.
// Every section is independently optional; a nil section was not sent
// (or could not be decoded) and is left out of the dashboard.
type Report struct {
	ResumeAnalysis    *ResumeAnalysis    `json:"resume_analysis,omitempty"`
	MockResponse      *MockResponse      `json:"mock_response,omitempty"`
	SuccessPrediction *SuccessPrediction `json:"success_prediction,omitempty"`
	GapFixer          *GapFixer          `json:"gap_fixer,omitempty"`
}

// ResumeAnalysis scores the resume against the job description.
type ResumeAnalysis struct {
	IsValidResume         *bool        `json:"is_valid_resume,omitempty"`
	IsValidJobDescription *bool        `json:"is_valid_job_description,omitempty"`
	ValidationMessage     string       `json:"validation_message,omitempty"`
	Clarity               *Score       `json:"clarity,omitempty"`
	Relevance             *Score       `json:"relevance,omitempty"`
	Structure             *Score       `json:"structure,omitempty"`
	Experience            *Score       `json:"experience,omitempty"` // years, not 0-100
	Feedback              FeedbackList `json:"feedback,omitempty"`
}

// MockResponse scores the candidate's answers.
type MockResponse struct {
	Tone       *Score       `json:"tone,omitempty"`
	Confidence *Score       `json:"confidence,omitempty"`
	Relevance  *Score       `json:"relevance,omitempty"`
	TotalMarks *Score       `json:"total_marks,omitempty"`
	Feedback   FeedbackList `json:"feedback,omitempty"`
}

// SuccessPrediction is the overall likelihood of passing the interview.
type SuccessPrediction struct {
	Score         *Score       `json:"score,omitempty"`
	Justification FeedbackList `json:"justification,omitempty"`
}

// GapFixer is the improvement plan. Each field is optional on its own.
type GapFixer struct {
	Summary      FeedbackList `json:"summary,omitempty"`
	Improvements FeedbackList `json:"improvements,omitempty"`
	Links        FeedbackList `json:"links,omitempty"`
}

// Empty reports whether no section is present.
func (r *Report) Empty() bool {
	return r == nil || (r.ResumeAnalysis == nil && r.MockResponse == nil &&
		r.SuccessPrediction == nil && r.GapFixer == nil)
}

// UnmarshalJSON decodes each section on its own. A section that is not an
// object is dropped, and inside a section a field with an unexpected
// shape is dropped, instead of failing the whole report.
func (r *Report) UnmarshalJSON(data []byte) error {
	*r = Report{}
	if isNull(data) {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("report is not an object: %w", err)
	}

	r.ResumeAnalysis = decodeSection[ResumeAnalysis](raw[KeyResumeAnalysis])
	r.MockResponse = decodeSection[MockResponse](raw[KeyMockResponse])
	r.SuccessPrediction = decodeSection[SuccessPrediction](raw[KeySuccessPrediction])
	r.GapFixer = decodeSection[GapFixer](raw[KeyGapFixer])
	return nil
}

func decodeSection[T any](raw json.RawMessage) *T {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil
	}
	for key, val := range fields {
		single, err := json.Marshal(map[string]json.RawMessage{key: val})
		if err != nil {
			delete(fields, key)
			continue
		}
		var field T
		if err := json.Unmarshal(single, &field); err != nil {
			delete(fields, key)
		}
	}

	kept, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	var v T
	if err := json.Unmarshal(kept, &v); err != nil {
		return nil
	}
	return &v
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// Score is a numeric score. The service sometimes sends numbers as
// strings ("85" or "85%"), both are accepted. NaN and infinities are
// rejected.
type Score float64

// NewScore returns a pointer to s, for building reports in code.
func NewScore(s float64) *Score {
	v := Score(s)
	return &v
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSuffix(strings.TrimSpace(str), "%")
		f, err := strconv.ParseFloat(str, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("score %q is not a finite number", str)
		}
		*s = Score(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// value returns the score and whether it is present.
func (s *Score) value() (float64, bool) {
	if s == nil {
		return 0, false
	}
	return float64(*s), true
}

// FeedbackList is feedback text that may arrive as a single string or
// a list of strings. A single string decodes to a one-element list.
type FeedbackList []string

func (f *FeedbackList) UnmarshalJSON(data []byte) error {
	*f = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || isNull(data) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FeedbackList{s}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("feedback must be a string or a list: %w", err)
	}
	out := make(FeedbackList, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	*f = out
	return nil
}

// Items returns the non-blank entries, trimmed.
func (f FeedbackList) Items() []string {
	var out []string
	for _, s := range f {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
