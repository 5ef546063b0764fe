package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/store"
	"github.com/abhisek/interviewcoach/internal/ui/components"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past practice attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		attempts, err := s.AttemptRepo().List(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		if len(attempts) == 0 {
			fmt.Println("No attempts found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-24s  %-9s  %s\n", "ID", "Timestamp", "Resume", "Answered", "Score")
		fmt.Println(strings.Repeat("─", 100))

		for _, a := range attempts {
			score := "--"
			if v, ok := report.HeadlineScore(a.Report); ok {
				score = fmt.Sprintf("%.0f%%", v)
			}
			resume := a.ResumeName
			if len(resume) > 24 {
				resume = resume[:24]
			}
			fmt.Printf("%-36s  %-19s  %-24s  %-9s  %s\n",
				a.AttemptID,
				formatTime(a.Timestamp),
				resume,
				fmt.Sprintf("%d/%d", answered(a.Answers), len(a.Questions)),
				score,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the questions, answers and evaluation of an attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.AttemptRepo().Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("get attempt: %w", err)
		}
		if a == nil {
			return fmt.Errorf("attempt %s not found", args[0])
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %s\n", a.AttemptID)
		fmt.Printf("Time:      %s\n", formatTime(a.Timestamp))
		fmt.Printf("Session:   %s\n", a.SessionID)
		fmt.Printf("Resume:    %s\n", a.ResumeName)

		fmt.Printf("\n%s\nJob description\n%s\n%s\n", sep, sep, strings.TrimSpace(a.JobDescription))

		fmt.Printf("\n%s\nAnswers\n%s\n", sep, sep)
		for i, q := range a.Questions {
			ans := ""
			if i < len(a.Answers) {
				ans = strings.TrimSpace(a.Answers[i])
			}
			if ans == "" {
				ans = "(no answer)"
			}
			fmt.Printf("%d. %s\n   %s\n\n", i+1, q, ans)
		}

		fmt.Printf("%s\nEvaluation\n%s\n", sep, sep)
		var r report.Report
		if err := json.Unmarshal(a.Report, &r); err != nil {
			fmt.Println(string(a.Report))
			return nil
		}
		lipgloss.Println(components.RenderDashboard(report.Project(&r), 90))
		return nil
	},
}

var historyRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List recent calls to the evaluation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		op, _ := cmd.Flags().GetString("op")

		s, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryRequests(context.Background(), store.QueryOpts{Limit: limit, Operation: op})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-20s  %-36s  %-7s  %s\n",
			"ID", "Timestamp", "Operation", "Session", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-5d  %-19s  %-20s  %-36s  %-7d  %s\n",
				e.ID,
				formatTime(e.Timestamp),
				e.Operation,
				e.SessionID,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of attempts to show")
	historyRequestsCmd.Flags().Int("limit", 20, "Number of requests to show")
	historyRequestsCmd.Flags().String("op", "", "Only show this operation (e.g. generate_questions)")

	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyRequestsCmd)
}

func openHistoryStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func answered(answers []string) int {
	n := 0
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}
