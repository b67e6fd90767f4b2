package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sensa-code/climb"
)

// fileConfig mirrors the optional config.json. Durations are Go
// duration strings such as "30s". Absent fields keep their defaults.
type fileConfig struct {
	OutputDir       string `json:"output_dir"`
	RequestTimeout  string `json:"request_timeout"`
	MaxRetries      *int   `json:"max_retries"`
	RetryBaseDelay  string `json:"retry_base_delay"`
	PolitenessDelay string `json:"politeness_delay"`
	ReaderBaseURL   string `json:"reader_base_url"`
	ReaderAPIKey    string `json:"reader_api_key"`
	LogLevel        string `json:"log_level"`
}

// defaultConfigPath honors CLIMB_CONFIG, falling back to config.json in
// the working directory.
func defaultConfigPath() string {
	if path := os.Getenv("CLIMB_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}

// loadConfig builds the runtime config from defaults, the optional
// config file, and the CLIMB_READER_API_KEY environment variable, in
// that override order. A missing file is fine; a malformed one is not.
func loadConfig(path string) (*climb.Config, error) {
	cfg := climb.DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, err
	default:
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
		if err := fc.apply(cfg); err != nil {
			return nil, err
		}
	}

	if key := os.Getenv("CLIMB_READER_API_KEY"); key != "" {
		cfg.ReaderAPIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *climb.Config) error {
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.ReaderBaseURL != "" {
		cfg.ReaderBaseURL = fc.ReaderBaseURL
	}
	if fc.ReaderAPIKey != "" {
		cfg.ReaderAPIKey = fc.ReaderAPIKey
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}

	for _, d := range []struct {
		raw  string
		dest *time.Duration
	}{
		{fc.RequestTimeout, &cfg.RequestTimeout},
		{fc.RetryBaseDelay, &cfg.RetryBaseDelay},
		{fc.PolitenessDelay, &cfg.PolitenessDelay},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return err
		}
		*d.dest = v
	}
	return nil
}

// newLogger builds the program logger at the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
