package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewcoach/internal/workflow"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseURL, EnvTimeout, EnvSubmitPolicy, EnvDB, EnvLogFile, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
	assert.Equal(t, workflow.PolicyAtLeastOne, cfg.Policy())
	require.NoError(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://coach.example.com")
	t.Setenv(EnvTimeout, "45s")
	t.Setenv(EnvSubmitPolicy, "all")
	t.Setenv(EnvDB, "/tmp/coach.db")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := FromEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, "https://coach.example.com", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, workflow.PolicyAll, cfg.Policy())
	assert.Equal(t, "/tmp/coach.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "soon")
	_, err := FromEnv(Default())
	assert.ErrorContains(t, err, EnvTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvBaseURL)
	os.Unsetenv(EnvSubmitPolicy)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "coach.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"INTERVIEWCOACH_BASE_URL=http://localhost:9000\nINTERVIEWCOACH_SUBMIT_POLICY=all\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv(EnvBaseURL)
		os.Unsetenv(EnvSubmitPolicy)
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, "all", cfg.SubmitPolicy)
}

func TestLoad_EnvOverridesDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "http://from-env:8000")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("INTERVIEWCOACH_BASE_URL=http://from-file:8000\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.BaseURL)
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadDotEnv(""), "implicit .env may be absent")
	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")), "explicit file must exist")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"empty url", func(c *Config) { c.BaseURL = "" }, "BaseURL is required"},
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }, "not a valid URL"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "Timeout must be positive"},
		{"bad policy", func(c *Config) { c.SubmitPolicy = "most" }, "SubmitPolicy"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "op", "generate_questions")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "op=generate_questions")
}

func TestSetupFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "coach.log")
	cfg := Default()
	cfg.LogFile = path
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closer, err := SetupFileLogging(cfg)
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
