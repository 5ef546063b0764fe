package mockservice

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/report"
)

// targetWords is the answer length that earns full marks for delivery.
const targetWords = 60

// Evaluate builds a deterministic report from answer coverage and length.
// It stands in for the language-model evaluators; the same input always
// yields the same scores.
func Evaluate(resumeBytes int, jobDescription string, answers []evalapi.AnswerPair) *report.Report {
	answered, words := 0, 0
	for _, a := range answers {
		n := len(strings.Fields(a.Answer))
		if n > 0 {
			answered++
			words += n
		}
	}

	coverage := 0.0
	if len(answers) > 0 {
		coverage = float64(answered) / float64(len(answers))
	}
	depth := 0.0
	if answered > 0 {
		depth = math.Min(float64(words)/float64(answered)/targetWords, 1)
	}

	tone := round(55 + 40*depth)
	confidence := round(40 + 55*coverage)
	relevance := round(50 + 25*coverage + 20*depth)
	total := round((tone + confidence + relevance) / 3)

	jdWords := len(strings.Fields(jobDescription))
	clarity := round(math.Min(60+float64(resumeBytes)/2048, 90))
	resumeRelevance := round(math.Min(55+float64(jdWords), 88))
	structure := 72.0
	years := 3.0

	resumeAvg := (clarity + resumeRelevance + structure) / 3
	prediction := round((resumeAvg + total) / 2)

	valid := true
	return &report.Report{
		ResumeAnalysis: &report.ResumeAnalysis{
			IsValidResume:         &valid,
			IsValidJobDescription: &valid,
			Clarity:               report.NewScore(clarity),
			Relevance:             report.NewScore(resumeRelevance),
			Structure:             report.NewScore(structure),
			Experience:            report.NewScore(years),
			Feedback: report.FeedbackList{
				"Quantify the impact of your most recent role.",
				"Mirror the key skills from the job description in your summary.",
			},
		},
		MockResponse: &report.MockResponse{
			Tone:       report.NewScore(tone),
			Confidence: report.NewScore(confidence),
			Relevance:  report.NewScore(relevance),
			TotalMarks: report.NewScore(total),
			Feedback:   mockFeedback(coverage, depth),
		},
		SuccessPrediction: &report.SuccessPrediction{
			Score: report.NewScore(prediction),
			Justification: report.FeedbackList{
				fmt.Sprintf("You answered %d of %d questions; %s.", answered, len(answers), band(prediction)),
			},
		},
		GapFixer: &report.GapFixer{
			Summary: report.FeedbackList{
				"Focus on structured, specific answers and a results-oriented resume.",
			},
			Improvements: report.FeedbackList{
				"Use the STAR method (Situation, Task, Action, Result) for behavioral answers.",
				"Add measurable outcomes to resume bullet points.",
			},
			Links: report.FeedbackList{
				"https://www.themuse.com/advice/star-interview-method",
				"https://www.indeed.com/career-advice/resumes-cover-letters/how-to-quantify-resume",
			},
		},
	}
}

func mockFeedback(coverage, depth float64) report.FeedbackList {
	var tips report.FeedbackList
	if coverage < 1 {
		tips = append(tips, "Answer every question, even briefly; skipped questions lower your score.")
	}
	if depth < 0.5 {
		tips = append(tips, "Give more detail: describe the situation, your actions and the result.")
	}
	tips = append(tips, "Close each answer with what you learned.")
	return tips
}

func band(score float64) string {
	switch report.BandFor(score) {
	case report.BandHigh:
		return "a strong chance of success"
	case report.BandMedium:
		return "a fair chance with some preparation"
	default:
		return "more practice is recommended"
	}
}

func round(f float64) float64 { return math.Round(f) }
