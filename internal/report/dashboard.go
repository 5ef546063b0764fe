package report

import (
	"encoding/json"
	"fmt"
)

// SectionKind identifies a scored dashboard section.
type SectionKind string

const (
	SectionResume    SectionKind = "resume"
	SectionInterview SectionKind = "interview"
)

// Dashboard is the display-ready projection of a Report. Sections that
// were absent from the report are absent here.
type Dashboard struct {
	Prediction *Prediction
	Sections   []Section
	Feedback   []FeedbackBlock
	Resources  []string

	// Notice carries the service's validation message when it flagged
	// the resume or job description as invalid.
	Notice string
}

// Prediction is the success-likelihood card.
type Prediction struct {
	Score         float64
	Band          Band
	Justification []string
}

// Section is a group of score cards from one report section.
type Section struct {
	Kind  SectionKind
	Title string
	Cards []ScoreCard
}

// ScoreCard is one banded score.
type ScoreCard struct {
	Key   string
	Title string
	// Raw is the value as reported. It differs from Score only for
	// experience, where Raw is in years.
	Raw   float64
	Score float64
	Band  Band
}

// FeedbackBlock is a titled list of feedback lines.
type FeedbackBlock struct {
	Title string
	Items []string
}

// Empty reports whether nothing would be rendered.
func (d Dashboard) Empty() bool {
	return d.Prediction == nil && len(d.Sections) == 0 && len(d.Feedback) == 0 &&
		len(d.Resources) == 0 && d.Notice == ""
}

// Section returns the section of the given kind, if present.
func (d Dashboard) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Headline returns the single score that best summarizes the attempt:
// the mock interview total when present, else the success prediction.
func (d Dashboard) Headline() (float64, bool) {
	if sec, ok := d.Section(SectionInterview); ok {
		for _, c := range sec.Cards {
			if c.Key == "total_marks" {
				return c.Score, true
			}
		}
	}
	if d.Prediction != nil {
		return d.Prediction.Score, true
	}
	return 0, false
}

// HeadlineScore decodes a stored report and returns its headline score.
func HeadlineScore(raw json.RawMessage) (float64, bool) {
	var r Report
	if len(raw) == 0 || json.Unmarshal(raw, &r) != nil {
		return 0, false
	}
	return Project(&r).Headline()
}

// Project builds the dashboard for r. A nil report projects to an
// empty dashboard.
func Project(r *Report) Dashboard {
	var d Dashboard
	if r == nil {
		return d
	}

	if sp := r.SuccessPrediction; sp != nil {
		if score, ok := sp.Score.value(); ok {
			d.Prediction = &Prediction{
				Score:         score,
				Band:          BandFor(score),
				Justification: sp.Justification.Items(),
			}
		}
	}

	if ra := r.ResumeAnalysis; ra != nil {
		sec := Section{Kind: SectionResume, Title: "Resume Analysis"}
		sec.Cards = appendCard(sec.Cards, "clarity", "Resume Clarity", ra.Clarity)
		sec.Cards = appendCard(sec.Cards, "relevance", "Relevance", ra.Relevance)
		sec.Cards = appendCard(sec.Cards, "structure", "Structure", ra.Structure)
		if years, ok := ra.Experience.value(); ok {
			score := ExperienceScore(years)
			sec.Cards = append(sec.Cards, ScoreCard{
				Key:   "experience",
				Title: fmt.Sprintf("Experience (%s years)", formatNumber(years)),
				Raw:   years,
				Score: score,
				Band:  BandFor(score),
			})
		}
		if len(sec.Cards) > 0 {
			d.Sections = append(d.Sections, sec)
		}
		if invalid(ra.IsValidResume) || invalid(ra.IsValidJobDescription) {
			d.Notice = ra.ValidationMessage
			if d.Notice == "" {
				d.Notice = "The evaluator flagged the resume or job description as invalid."
			}
		}
	}

	if mr := r.MockResponse; mr != nil {
		sec := Section{Kind: SectionInterview, Title: "Mock Interview"}
		sec.Cards = appendCard(sec.Cards, "tone", "Interview Tone", mr.Tone)
		sec.Cards = appendCard(sec.Cards, "confidence", "Confidence", mr.Confidence)
		sec.Cards = appendCard(sec.Cards, "relevance", "Answer Relevance", mr.Relevance)
		sec.Cards = appendCard(sec.Cards, "total_marks", "Overall Score", mr.TotalMarks)
		if len(sec.Cards) > 0 {
			d.Sections = append(d.Sections, sec)
		}
	}

	if ra := r.ResumeAnalysis; ra != nil {
		d.Feedback = appendBlock(d.Feedback, "Resume Improvements", ra.Feedback)
	}
	if mr := r.MockResponse; mr != nil {
		d.Feedback = appendBlock(d.Feedback, "Interview Tips", mr.Feedback)
	}
	if gf := r.GapFixer; gf != nil {
		d.Feedback = appendBlock(d.Feedback, "Overall Assessment", gf.Summary)
		d.Feedback = appendBlock(d.Feedback, "Key Improvements", gf.Improvements)
		d.Resources = gf.Links.Items()
	}

	return d
}

func appendCard(cards []ScoreCard, key, title string, s *Score) []ScoreCard {
	v, ok := s.value()
	if !ok {
		return cards
	}
	return append(cards, ScoreCard{Key: key, Title: title, Raw: v, Score: v, Band: BandFor(v)})
}

func appendBlock(blocks []FeedbackBlock, title string, items FeedbackList) []FeedbackBlock {
	lines := items.Items()
	if len(lines) == 0 {
		return blocks
	}
	return append(blocks, FeedbackBlock{Title: title, Items: lines})
}

func invalid(flag *bool) bool {
	return flag != nil && !*flag
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}
