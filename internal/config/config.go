// Package config resolves runtime settings from defaults, an optional
// .env file and INTERVIEWCOACH_* environment variables. Command-line
// flags are applied on top by the caller before Validate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/interviewcoach/internal/workflow"
)

// Environment variables read by FromEnv.
const (
	EnvBaseURL      = "INTERVIEWCOACH_BASE_URL"
	EnvTimeout      = "INTERVIEWCOACH_TIMEOUT"
	EnvSubmitPolicy = "INTERVIEWCOACH_SUBMIT_POLICY"
	EnvDB           = "INTERVIEWCOACH_DB"
	EnvLogFile      = "INTERVIEWCOACH_LOG_FILE"
	EnvLogLevel     = "INTERVIEWCOACH_LOG_LEVEL"
)

// DefaultBaseURL is where the evaluation service runs in local development.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config holds the application settings.
type Config struct {
	// BaseURL is the root of the evaluation service.
	BaseURL string `validate:"required,url"`

	// Timeout bounds every service call. Default: 120s.
	Timeout time.Duration `validate:"gt=0"`

	// SubmitPolicy is "at-least-one" or "all".
	SubmitPolicy string `validate:"oneof=at-least-one all"`

	// DBPath is the request log database. Empty selects the XDG default.
	DBPath string

	// LogFile receives structured logs. Empty selects the XDG default.
	LogFile string

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      120 * time.Second,
		SubmitPolicy: string(workflow.DefaultSubmitPolicy),
		LogLevel:     "info",
	}
}

// Load builds a Config from defaults, the .env file at envFile (".env"
// when empty; a missing file is not an error) and the environment.
func Load(envFile string) (Config, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return Config{}, err
	}
	return FromEnv(Default())
}

// LoadDotEnv loads variables from a .env file without overriding ones
// already set in the environment.
func LoadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// FromEnv overlays INTERVIEWCOACH_* variables on cfg.
func FromEnv(cfg Config) (Config, error) {
	if u := os.Getenv(EnvBaseURL); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv(EnvTimeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if p := os.Getenv(EnvSubmitPolicy); p != "" {
		cfg.SubmitPolicy = p
	}
	if p := os.Getenv(EnvDB); p != "" {
		cfg.DBPath = p
	}
	if p := os.Getenv(EnvLogFile); p != "" {
		cfg.LogFile = p
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		cfg.LogLevel = strings.ToLower(l)
	}
	return cfg, nil
}

// Policy returns the parsed submit policy.
func (c Config) Policy() workflow.SubmitPolicy {
	p, err := workflow.ParseSubmitPolicy(c.SubmitPolicy)
	if err != nil {
		return workflow.DefaultSubmitPolicy
	}
	return p
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s %q is not a valid URL", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", fe.Field(), fe.Value(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be positive", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// DefaultLogPath returns $XDG_STATE_HOME/interviewcoach/interviewcoach.log.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "interviewcoach", "interviewcoach.log"), nil
}
