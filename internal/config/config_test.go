package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data/input", cfg.InputDir)
	assert.Equal(t, "data/output", cfg.OutputDir)
	assert.Equal(t, 0.0, cfg.MinDurationSeconds)
	assert.Equal(t, 0.5, cfg.MaxDropFraction)
	assert.Equal(t, 1, cfg.Workers)
	assert.False(t, cfg.ExcelWorkbook)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
input_dir: /exports/spotify
output_dir: /exports/tables
min_duration_seconds: 30
workers: 4
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/exports/spotify", cfg.InputDir)
	assert.Equal(t, "/exports/tables", cfg.OutputDir)
	assert.Equal(t, 30.0, cfg.MinDurationSeconds)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep their defaults
	assert.Equal(t, 0.5, cfg.MaxDropFraction)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input_dir: /from-file\n"), 0644))

	t.Setenv("SPOTIFY_ETL_INPUT_DIR", "/from-env")
	t.Setenv("SPOTIFY_ETL_MIN_DURATION_SECONDS", "15")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/from-env", cfg.InputDir)
	assert.Equal(t, 15.0, cfg.MinDurationSeconds)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().InputDir, cfg.InputDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input_dir: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty input dir",
			mutate:  func(c *Config) { c.InputDir = "" },
			wantErr: true,
		},
		{
			name:    "negative min duration",
			mutate:  func(c *Config) { c.MinDurationSeconds = -1 },
			wantErr: true,
		},
		{
			name:    "drop fraction above one",
			mutate:  func(c *Config) { c.MaxDropFraction = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
