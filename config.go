package climb

import (
	"sync/atomic"
	"time"
)

// Config holds the tunable settings the pipeline reads at call time.
// A Config value is an immutable snapshot; runtime reloads swap a fresh
// snapshot into a ConfigStore rather than mutating fields in place.
type Config struct {
	OutputDir       string
	RequestTimeout  time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
	PolitenessDelay time.Duration
	ReaderBaseURL   string
	ReaderAPIKey    string
	LogLevel        string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "articles",
		RequestTimeout:  30 * time.Second,
		MaxRetries:      3,
		RetryBaseDelay:  2 * time.Second,
		PolitenessDelay: 2 * time.Second,
		ReaderBaseURL:   "https://r.jina.ai/",
		LogLevel:        "info",
	}
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.MaxRetries < 1 {
		return Errorf(EINVALID, "max retries must be at least 1")
	}
	if c.ReaderBaseURL == "" {
		return Errorf(EINVALID, "reader base URL required")
	}
	return nil
}

// ConfigStore holds the current Config snapshot and supports atomic
// replacement, so a reload cannot race a task that is mid-flight.
// The zero value is not usable; construct with NewConfigStore.
type ConfigStore struct {
	v atomic.Pointer[Config]
}

// NewConfigStore creates a ConfigStore holding cfg.
func NewConfigStore(cfg *Config) *ConfigStore {
	s := &ConfigStore{}
	s.v.Store(cfg)
	return s
}

// Load returns the current snapshot. Callers must not mutate it.
func (s *ConfigStore) Load() *Config {
	return s.v.Load()
}

// Swap atomically replaces the current snapshot.
func (s *ConfigStore) Swap(cfg *Config) {
	s.v.Store(cfg)
}
