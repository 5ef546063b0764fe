// Package workflow implements the interview-practice session: the stage
// machine, input and submission validation, and session id correlation
// across the question and evaluation calls.
package workflow

// Stage is the current phase of the practice session.
type Stage int

const (
	StageIntake      Stage = iota // Collecting resume and job description
	StageQuestioning              // Answering generated questions
	StageReport                   // Showing the evaluation dashboard
)

func (s Stage) String() string {
	switch s {
	case StageIntake:
		return "intake"
	case StageQuestioning:
		return "questioning"
	case StageReport:
		return "report"
	default:
		return "unknown"
	}
}

// Title is the user-facing stage label.
func (s Stage) Title() string {
	switch s {
	case StageIntake:
		return "Upload"
	case StageQuestioning:
		return "Mock Interview"
	case StageReport:
		return "Results"
	default:
		return ""
	}
}
