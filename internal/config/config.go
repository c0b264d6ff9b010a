package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. SPOTIFY_ETL_INPUT_DIR.
const EnvPrefix = "SPOTIFY_ETL"

// Config represents the complete application configuration
type Config struct {
	// InputDir is the directory holding Streaming_History*.json export files
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	// OutputDir is the destination for generated tables
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	// MinDurationSeconds is the minimum listen length to retain a music event
	MinDurationSeconds float64 `yaml:"min_duration_seconds" envconfig:"MIN_DURATION_SECONDS" validate:"gte=0"`
	// MaxDropFraction is the dropped-record fraction above which the cleaner
	// surfaces a warning
	MaxDropFraction float64 `yaml:"max_drop_fraction" envconfig:"MAX_DROP_FRACTION" validate:"gte=0,lte=1"`
	// Workers bounds parallel input-file parsing; 1 means sequential
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=1"`
	// ExcelWorkbook enables the optional xlsx export alongside the CSV tables
	ExcelWorkbook bool `yaml:"excel_workbook" envconfig:"EXCEL_WORKBOOK"`
	// Tracing enables OpenTelemetry stage spans on stdout
	Tracing bool `yaml:"tracing" envconfig:"TRACING"`

	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		InputDir:           "data/input",
		OutputDir:          "data/output",
		MinDurationSeconds: 0,
		MaxDropFraction:    0.5,
		Workers:            1,
		ExcelWorkbook:      false,
		Tracing:            false,
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/etl.log",
		},
	}
}

// Load builds the configuration by layering, in increasing precedence:
// defaults, the YAML config file (if present), then environment variables.
// Command-line flags are applied on top by the caller.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
// Called after flag overrides have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, verr := range verrs {
				return fmt.Errorf("config validation failed: field %s violates %q", verr.Namespace(), verr.Tag())
			}
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the path to the config file if one exists in a
// conventional location
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
