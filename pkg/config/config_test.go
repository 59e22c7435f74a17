package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string duration", input: `"5s"`, want: 5 * time.Second},
		{name: "numeric nanoseconds", input: `2000000000`, want: 2 * time.Second},
		{name: "invalid string", input: `"not-a-duration"`, wantErr: true},
		{name: "invalid type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{BackendURL: "http://scanner:8000/api"}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.PollInterval))
	assert.Equal(t, 150, cfg.MaxAttempts)
	assert.Equal(t, 10, cfg.BulkConcurrency)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.RefreshDelay))
}

func TestConfigValidateRequiresBackendURL(t *testing.T) {
	cfg := Config{}
	require.Error(t, cfg.Validate())
}

func TestLoadAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scandeck.json")

	data := `{
		"backend_url": "http://scanner:8000/api",
		"listen_addr": ":9000",
		"poll_interval": "3s",
		"max_attempts": 20,
		"history_db": "/tmp/history.db"
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	var cfg Config
	require.NoError(t, LoadAndValidate(path, &cfg))

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, time.Duration(cfg.PollInterval))
	assert.Equal(t, 20, cfg.MaxAttempts)
	assert.Equal(t, "/tmp/history.db", cfg.HistoryDB)
	// Fields absent from the file still get defaults.
	assert.Equal(t, 24, cfg.DetailedMaxAttempts)
}

func TestLoadFileMissing(t *testing.T) {
	var cfg Config
	require.Error(t, LoadFile("/nonexistent/scandeck.json", &cfg))
}
