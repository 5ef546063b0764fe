package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewcoach/internal/app"
	"github.com/abhisek/interviewcoach/internal/config"
	"github.com/abhisek/interviewcoach/internal/screens/home"
	"github.com/abhisek/interviewcoach/internal/workflow"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logs, err := config.SetupFileLogging(cfg)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeQuietly(logs)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := newService(cfg, st)
	slog.Info("starting", "version", version, "base_url", cfg.BaseURL, "policy", cfg.SubmitPolicy)

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(home.Deps{
		Service:       svc,
		NewController: func() *workflow.Controller { return newController(cfg, svc, st) },
		Attempts:      st.AttemptRepo(),
		BaseURL:       cfg.BaseURL,
	}, !noSplash)
}
