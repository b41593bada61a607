package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "formatterhub/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, DefaultWorkers, cfg.Batch.Workers)
				assert.Equal(t, AppName, cfg.Telemetry.ServiceName)
				assert.Equal(t, ".", cfg.Output.Dir)
			},
		},
		{
			name: "file values override defaults",
			file: "logging:\n  level: debug\nbatch:\n  workers: 8\n  timeout: 30s\noutput:\n  dir: out\n  csv: true\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format, "unset keys keep defaults")
				assert.Equal(t, 8, cfg.Batch.Workers)
				assert.Equal(t, 30*time.Second, cfg.Batch.Timeout)
				assert.Equal(t, "out", cfg.Output.Dir)
				assert.True(t, cfg.Output.CSV)
			},
		},
		{
			name: "env overrides file",
			file: "logging:\n  level: debug\nbatch:\n  workers: 8\n",
			env: map[string]string{
				"FMT_LOGGING_LEVEL":  "warn",
				"FMT_OUTPUT_DIR":     "/reports",
				"FMT_REPORTS_FILE":   "reports.yaml",
				"FMT_BATCH_TIMEOUT":  "1m",
				"FMT_OUTPUT_CSV":     "true",
				"FMT_LOGGING_FORMAT": "text",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, 8, cfg.Batch.Workers)
				assert.Equal(t, time.Minute, cfg.Batch.Timeout)
				assert.Equal(t, "/reports", cfg.Output.Dir)
				assert.Equal(t, "reports.yaml", cfg.ReportsFile)
				assert.True(t, cfg.Output.CSV)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"FMT_LOGGING_LEVEL": "chatty"},
			wantErr: true,
		},
		{
			name:    "invalid worker count",
			file:    "batch:\n  workers: 0\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "logging: [\n",
			wantErr: true,
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"FMT_BATCH_WORKERS": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeFile(t, "formatter.yaml", tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeFile(t, "custom.yaml", "telemetry:\n  service_name: nightly\n")
	t.Setenv("FMT_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nightly", cfg.Telemetry.ServiceName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"file output needs a path", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, "logging.file_path is required"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format must be one of: json, text"},
		{"too many workers", func(c *Config) { c.Batch.Workers = 100 }, "batch.workers must be less than or equal to 64"},
		{"no output dir", func(c *Config) { c.Output.Dir = "" }, "output.dir is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
