package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewcoach/internal/evalapi"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the evaluation service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := evalapi.NewClient(cfg.BaseURL, evalapi.WithTimeout(cfg.Timeout))
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		start := time.Now()
		hs, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.BaseURL, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s (%dms)\n",
			cfg.BaseURL, hs.Status, hs.Message, time.Since(start).Milliseconds())
		return nil
	},
}
