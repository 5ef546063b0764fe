package interview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewcoach/internal/ui/components"
	"github.com/abhisek/interviewcoach/internal/ui/theme"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *InterviewScreen) View(width, height int) string {
	if s.confirmRestart {
		return renderRestartConfirm(width)
	}

	snap := s.ctrl.Snapshot()
	var body string
	switch snap.Stage {
	case workflow.StageQuestioning:
		body = s.renderQuestions(snap, width)
	case workflow.StageReport:
		body = s.renderReport(snap, width, height)
	default:
		body = s.renderIntake(width)
	}

	if msg := s.errorText(snap); msg != "" {
		body += "\n\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(theme.ErrorText.Render(msg))
	}
	return body
}

func (s *InterviewScreen) errorText(snap workflow.State) string {
	if s.localErr != "" {
		return s.localErr
	}
	return snap.Err
}

func (s *InterviewScreen) renderIntake(width int) string {
	fieldWidth := min(width-8, 72)
	pad := lipgloss.NewStyle().PaddingLeft(max((width-fieldWidth)/2, 0))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Upload your resume and describe the role to get tailored questions."))
	b.WriteString("\n\n")
	b.WriteString(pad.Render(s.resumeInput.View(fieldWidth)))
	b.WriteString("\n\n")
	b.WriteString(pad.Render(s.jdInput.View(fieldWidth)))
	b.WriteString("\n\n")

	btn := components.NewButton("Generate Questions", s.spinner()+" Generating...", nil)
	btn.Busy = s.busy()
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(btn.View()))

	return b.String()
}

func (s *InterviewScreen) renderQuestions(snap workflow.State, width int) string {
	fieldWidth := min(width-8, 90)
	pad := lipgloss.NewStyle().PaddingLeft(max((width-fieldWidth)/2, 0))
	total := len(snap.Questions)

	var b strings.Builder
	b.WriteString("\n")

	progress := fmt.Sprintf("Question %d of %d", s.current+1, total)
	answered := fmt.Sprintf("%d/%d answered", snap.Answered(), total)
	b.WriteString(pad.Render(
		theme.Heading.Render(progress) + "   " + theme.Hint.Render(answered)))
	b.WriteString("\n\n")

	if s.current < total {
		b.WriteString(pad.Render(theme.Card.Width(fieldWidth).Render(
			theme.Body.Bold(true).Render(snap.Questions[s.current]))))
		b.WriteString("\n\n")
	}
	b.WriteString(pad.Render(s.answerInput.View(fieldWidth)))
	b.WriteString("\n\n")

	for i, q := range snap.Questions {
		marker := theme.Unanswered.Render("○")
		if strings.TrimSpace(snap.Answer(i)) != "" {
			marker = theme.Answered.Render("●")
		}
		line := truncate(fmt.Sprintf("%d. %s", i+1, q), fieldWidth-4)
		style := theme.Unselected
		if i == s.current {
			style = theme.Selected
		}
		b.WriteString(pad.Render(marker + " " + style.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	label := "Submit Answers"
	if s.ctrl.Policy() == workflow.PolicyAll {
		label = "Submit Answers (all required)"
	}
	btn := components.NewButton(label, s.spinner()+" Submitting...", nil)
	btn.Busy = s.busy()
	btn.Active = s.current == total-1
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(btn.View()))

	return b.String()
}

func (s *InterviewScreen) renderReport(snap workflow.State, width, height int) string {
	contentWidth := min(width-4, 100)
	dash := components.RenderDashboard(snap.Dashboard, contentWidth)

	footer := ""
	if snap.AttemptID != "" {
		footer = "\n\n" + theme.Hint.Render("Saved to history as "+shortID(snap.AttemptID))
	}

	lines := strings.Split(dash+footer, "\n")
	maxScroll := max(len(lines)-height+2, 0)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	lines = lines[s.scroll:]

	return lipgloss.NewStyle().
		PaddingLeft(max((width-contentWidth)/2, 0)).
		PaddingTop(1).
		Render(strings.Join(lines, "\n"))
}

func renderRestartConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Start over?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your answers will be discarded."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, start over"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func (s *InterviewScreen) spinner() string {
	return spinnerFrames[s.spinnerFrame%len(spinnerFrames)]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
