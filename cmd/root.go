package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewcoach/internal/config"
	"github.com/abhisek/interviewcoach/internal/evalapi"
	"github.com/abhisek/interviewcoach/internal/store"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

var rootCmd = &cobra.Command{
	Use:   "interviewcoach",
	Short: "Mock interview practice against your resume",
	Long: "interviewcoach uploads your resume and a job description to an evaluation service, " +
		"asks you the behavioral questions it generates, and shows the scored feedback.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addConfigFlags(rootCmd)
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(mockServerCmd)
	rootCmd.AddCommand(versionCmd)
}

// addConfigFlags registers the persistent flags read by loadConfig.
func addConfigFlags(c *cobra.Command) {
	pf := c.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides INTERVIEWCOACH_DB env var)")
	pf.String("base-url", "", "Evaluation service URL (overrides INTERVIEWCOACH_BASE_URL env var)")
	pf.String("policy", "", `Answer completion policy: "at-least-one" or "all"`)
	pf.Duration("timeout", 0, "Timeout for each service call")
	pf.String("env-file", "", "Load settings from this .env file (default: ./.env if present)")
}

// loadConfig resolves settings from defaults, the .env file, the
// environment and finally the command-line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("policy"); v != "" {
		cfg.SubmitPolicy = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path from the config (flag or
// INTERVIEWCOACH_DB), else the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newService returns the evaluation client, recording every call in
// the request log when a store is given.
func newService(cfg config.Config, st *store.Store) evalapi.Service {
	var svc evalapi.Service = evalapi.NewClient(cfg.BaseURL, evalapi.WithTimeout(cfg.Timeout))
	if st != nil {
		svc = evalapi.WithLogging(svc, st.EventRepo(), cfg.BaseURL)
	}
	return svc
}

func newController(cfg config.Config, svc evalapi.Service, st *store.Store) *workflow.Controller {
	opts := []workflow.Option{workflow.WithPolicy(cfg.Policy())}
	if st != nil {
		opts = append(opts, workflow.WithRecorder(st.AttemptRepo()))
	}
	return workflow.New(svc, opts...)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
