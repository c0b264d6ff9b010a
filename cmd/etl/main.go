package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"spotifyetl/internal/config"
	"spotifyetl/internal/infrastructure"
	"spotifyetl/internal/pipeline"
)

type flagValues struct {
	configFile  string
	inputDir    string
	outputDir   string
	minDuration float64
	workers     int
	xlsx        bool
	trace       bool
}

func main() {
	var fv flagValues
	flag.StringVar(&fv.configFile, "config", "", "path to config.yaml (optional)")
	flag.StringVar(&fv.inputDir, "in", "", "input directory with Streaming_History*.json files")
	flag.StringVar(&fv.outputDir, "out", "", "output directory for generated tables")
	flag.Float64Var(&fv.minDuration, "min-duration", 0, "minimum listen length in seconds to retain a music event")
	flag.IntVar(&fv.workers, "workers", 0, "parallel input-file parsers (default 1)")
	flag.BoolVar(&fv.xlsx, "xlsx", false, "also write an Excel workbook with all tables")
	flag.BoolVar(&fv.trace, "trace", false, "emit OpenTelemetry stage spans on stdout")
	flag.Parse()

	if err := run(fv); err != nil {
		fmt.Fprintf(os.Stderr, "etl: %v\n", err)
		os.Exit(1)
	}
}

func run(fv flagValues) error {
	cfg, err := config.Load(fv.configFile)
	if err != nil {
		return err
	}
	applyFlags(cfg, fv, flagsSet())
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx := infrastructure.ContextWithRunID(context.Background())

	providers, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		return err
	}
	defer providers.Shutdown(ctx)

	result, err := pipeline.New(cfg, logger, providers.Tracer).Run(ctx)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "run finished",
		slog.String("output_dir", cfg.OutputDir),
		slog.Int("fact_rows", len(result.Dataset.Facts)),
		slog.Duration("elapsed", result.Elapsed))

	return nil
}

// flagsSet returns the names of flags the operator passed explicitly.
func flagsSet() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyFlags overrides configuration with explicitly passed flags. Flags
// take precedence over environment variables and the config file.
func applyFlags(cfg *config.Config, fv flagValues, set map[string]bool) {
	if set["in"] {
		cfg.InputDir = fv.inputDir
	}
	if set["out"] {
		cfg.OutputDir = fv.outputDir
	}
	if set["min-duration"] {
		cfg.MinDurationSeconds = fv.minDuration
	}
	if set["workers"] {
		cfg.Workers = fv.workers
	}
	if set["xlsx"] {
		cfg.ExcelWorkbook = fv.xlsx
	}
	if set["trace"] {
		cfg.Tracing = fv.trace
	}
}
