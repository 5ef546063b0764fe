package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/interviewcoach/internal/config"
	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/report"
	"github.com/abhisek/interviewcoach/internal/ui/components"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run one practice round without the TUI",
	Long: "Generate questions for a resume and job description, answer them from a YAML file " +
		"or from standard input, and print the evaluation.",
	Example: `  interviewcoach practice --resume cv.pdf --jd role.txt
  interviewcoach practice --resume cv.pdf --jd role.txt --answers answers.yaml --json`,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().String("resume", "", "Resume file (.pdf or .docx)")
	practiceCmd.Flags().String("jd", "", "File containing the job description")
	practiceCmd.Flags().String("answers", "", "YAML file mapping question index to answer")
	practiceCmd.Flags().Bool("json", false, "Print the raw report as JSON")
	_ = practiceCmd.MarkFlagRequired("resume")
	_ = practiceCmd.MarkFlagRequired("jd")
}

// practiceResult is the --json output.
type practiceResult struct {
	SessionID string               `json:"session_id"`
	AttemptID string               `json:"attempt_id,omitempty"`
	Answers   []evalapi.AnswerPair `json:"answers"`
	Report    *report.Report       `json:"report"`
}

func runPractice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logs, err := config.SetupFileLogging(cfg)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeQuietly(logs)

	resumePath, _ := cmd.Flags().GetString("resume")
	jdPath, _ := cmd.Flags().GetString("jd")
	answersPath, _ := cmd.Flags().GetString("answers")
	asJSON, _ := cmd.Flags().GetBool("json")

	resume, err := evalapi.LoadResume(resumePath)
	if err != nil {
		return err
	}
	jd, err := os.ReadFile(jdPath)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}

	var scripted map[int]string
	if answersPath != "" {
		scripted, err = loadAnswers(answersPath)
		if err != nil {
			return err
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	ctrl := newController(cfg, newService(cfg, st), st)
	if err := ctrl.SetResume(resume); err != nil {
		return err
	}
	if err := ctrl.SetJobDescription(string(jd)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !asJSON {
		fmt.Fprintln(out, "Generating questions...")
	}
	if err := ctrl.RequestQuestions(ctx); err != nil {
		return failure(ctrl, err)
	}

	snap := ctrl.Snapshot()
	if scripted != nil {
		for i, a := range scripted {
			if err := ctrl.SetAnswer(i, a); err != nil {
				slog.Warn("ignoring scripted answer", "index", i, "error", err)
			}
		}
		if !asJSON {
			printQuestions(out, snap.Questions)
		}
	} else if err := promptAnswers(ctrl, snap.Questions, cmd.InOrStdin(), promptWriter(cmd, asJSON)); err != nil {
		return err
	}

	if !asJSON {
		fmt.Fprintln(out, "Evaluating answers...")
	}
	if err := ctrl.SubmitAnswers(ctx); err != nil {
		return failure(ctrl, err)
	}

	snap = ctrl.Snapshot()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(practiceResult{
			SessionID: snap.SessionID,
			AttemptID: snap.AttemptID,
			Answers:   workflow.BuildPayload(snap.Questions, snap.Answers),
			Report:    snap.Report,
		})
	}

	fmt.Fprintln(out)
	lipgloss.Fprintln(out, components.RenderDashboard(snap.Dashboard, 90))
	if snap.AttemptID != "" {
		fmt.Fprintf(out, "\nSaved as attempt %s\n", snap.AttemptID)
	}
	return nil
}

// promptWriter is where interactive prompts go. With --json, stdout
// carries only the result document.
func promptWriter(cmd *cobra.Command, asJSON bool) io.Writer {
	if asJSON {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

// failure reports the controller's display message for err.
func failure(ctrl *workflow.Controller, err error) error {
	if msg := ctrl.Snapshot().Err; msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

// loadAnswers reads a YAML mapping of question index to answer:
//
//	0: "I led the migration..."
//	2: "We missed a deadline once..."
func loadAnswers(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	answers, err := workflow.ParseAnswerMap(raw)
	if err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return answers, nil
}

func printQuestions(w io.Writer, questions []string) {
	for i, q := range questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, q)
	}
}

// promptAnswers asks each question on w and reads one line per answer
// from r. End of input leaves the remaining answers blank.
func promptAnswers(ctrl *workflow.Controller, questions []string, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for i, q := range questions {
		fmt.Fprintf(w, "\n%d. %s\n> ", i+1, q)
		if !sc.Scan() {
			fmt.Fprintln(w)
			break
		}
		if err := ctrl.SetAnswer(i, strings.TrimSpace(sc.Text())); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	return nil
}
