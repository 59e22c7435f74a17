// Package config pkg/config/config.go loads and validates scandeck
// configuration from JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	errInvalidDuration = errors.New("invalid duration")
	errNoBackendURL    = errors.New("backend_url is required")
)

// Validator interface for configurations that need validation.
type Validator interface {
	Validate() error
}

// Duration is a wrapper around time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// LoadFile is a generic helper that loads a JSON file from path into
// the struct pointed to by dst.
func LoadFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	return nil
}

// LoadAndValidate loads a configuration file and validates it if possible.
func LoadAndValidate(path string, cfg interface{}) error {
	if err := LoadFile(path, cfg); err != nil {
		return err
	}

	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}

	return nil
}

// Config is the scandeck engine configuration.
type Config struct {
	// BackendURL is the scanner API root, e.g. http://scanner:8000/api
	BackendURL string `json:"backend_url"`
	// ListenAddr is the dashboard API bind address, e.g. :8090
	ListenAddr string `json:"listen_addr"`

	// PollInterval / MaxAttempts control discovery job polling.
	PollInterval Duration `json:"poll_interval"`
	MaxAttempts  int      `json:"max_attempts"`

	// DetailedPollInterval / DetailedMaxAttempts control per-device
	// polling after a detailed scan request.
	DetailedPollInterval Duration `json:"detailed_poll_interval"`
	DetailedMaxAttempts  int      `json:"detailed_max_attempts"`

	// BulkConcurrency / BulkRate bound bulk fan-out.
	BulkConcurrency int     `json:"bulk_concurrency"`
	BulkRate        float64 `json:"bulk_rate"`
	// RefreshDelay is the settle-to-refresh delay after bulk scans.
	RefreshDelay Duration `json:"refresh_delay"`

	// HistoryDB is the path of the local scan-history database; empty
	// disables history.
	HistoryDB string `json:"history_db"`
}

const (
	defaultListenAddr           = ":8090"
	defaultPollInterval         = 2 * time.Second
	defaultMaxAttempts          = 150
	defaultDetailedPollInterval = 5 * time.Second
	defaultDetailedMaxAttempts  = 24
	defaultBulkConcurrency      = 10
	defaultBulkRate             = 20.0
	defaultRefreshDelay         = 5 * time.Second
)

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errNoBackendURL
	}

	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.PollInterval <= 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}

	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}

	if c.DetailedPollInterval <= 0 {
		c.DetailedPollInterval = Duration(defaultDetailedPollInterval)
	}

	if c.DetailedMaxAttempts <= 0 {
		c.DetailedMaxAttempts = defaultDetailedMaxAttempts
	}

	if c.BulkConcurrency <= 0 {
		c.BulkConcurrency = defaultBulkConcurrency
	}

	if c.BulkRate <= 0 {
		c.BulkRate = defaultBulkRate
	}

	if c.RefreshDelay <= 0 {
		c.RefreshDelay = Duration(defaultRefreshDelay)
	}

	return nil
}
