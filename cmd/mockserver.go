package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewcoach/internal/config"
	"github.com/abhisek/interviewcoach/internal/mockservice"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local stub of the evaluation service",
	Long: "mock-server serves the question generation and answer evaluation endpoints with " +
		"canned, deterministic responses so the client can be used without the real service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		level, _ := cmd.Flags().GetString("log-level")

		logger := config.NewLogger(os.Stderr, level)
		slog.SetDefault(logger)

		srv := mockservice.New(mockservice.WithLogger(logger))
		httpServer := &http.Server{
			Addr:         addr,
			Handler:      srv.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("mock evaluation service listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		slog.Info("shutting down gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
			return err
		}
		slog.Info("mock evaluation service stopped", "open_sessions", srv.SessionCount())
		return nil
	},
}

func init() {
	mockServerCmd.Flags().String("addr", ":8000", "Listen address")
	mockServerCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
}
