package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"spotifyetl/internal/analytics"
	"spotifyetl/internal/cleaner"
	"spotifyetl/internal/config"
	"spotifyetl/internal/dimensions"
	"spotifyetl/internal/exporter"
	"spotifyetl/internal/facts"
	"spotifyetl/internal/loader"
	"spotifyetl/pkg/contracts/domain"
)

// Result reports what one run did, for the final summary log and for tests.
type Result struct {
	Load    loader.Report
	Clean   cleaner.Report
	Dataset domain.Dataset
	Summary domain.Summary
	Elapsed time.Duration
}

// Pipeline runs the five transformation stages in order. Each stage is a
// pure function over the previous stage's output; the only state is the
// files read at the start and written at the end.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a pipeline for one run.
func New(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("spotifyetl")
	}
	return &Pipeline{cfg: cfg, logger: logger, tracer: tracer}
}

// Run executes load, clean, dimension build, fact build, analytics and
// write. The first unrecoverable error aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	ctx, runSpan := p.tracer.Start(ctx, "pipeline.run")
	defer runSpan.End()

	p.logger.InfoContext(ctx, "pipeline started",
		slog.String("input_dir", p.cfg.InputDir),
		slog.String("output_dir", p.cfg.OutputDir),
		slog.Float64("min_duration_seconds", p.cfg.MinDurationSeconds))

	records, loadReport, err := p.load(ctx)
	if err != nil {
		return nil, p.fail(ctx, runSpan, "load", err)
	}
	result.Load = loadReport

	events, cleanReport := p.clean(ctx, records)
	result.Clean = cleanReport

	dims := p.buildDimensions(ctx, events)

	factRows, err := p.buildFacts(ctx, events, dims)
	if err != nil {
		return nil, p.fail(ctx, runSpan, "facts", err)
	}
	result.Dataset = domain.Dataset{
		Artists:   dims.Artists,
		Tracks:    dims.Tracks,
		Times:     dims.Times,
		Platforms: dims.Platforms,
		Facts:     factRows,
	}

	result.Summary = p.summarize(ctx, events)

	if err := p.write(ctx, result.Dataset, result.Summary); err != nil {
		return nil, p.fail(ctx, runSpan, "write", err)
	}

	result.Elapsed = time.Since(start)
	p.logger.InfoContext(ctx, "pipeline complete",
		slog.Int("files_parsed", result.Load.FilesParsed),
		slog.Int("files_skipped", len(result.Load.SkippedFiles)),
		slog.Int("records_read", result.Clean.Read),
		slog.Int("records_dropped", result.Clean.Dropped()),
		slog.Int("events_kept", result.Clean.Kept),
		slog.Int("fact_rows", len(result.Dataset.Facts)),
		slog.Duration("elapsed", result.Elapsed))

	return result, nil
}

func (p *Pipeline) load(ctx context.Context) ([]domain.StreamRecord, loader.Report, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.load")
	defer span.End()

	records, report, err := loader.New(p.logger, p.cfg.Workers).Load(ctx, p.cfg.InputDir)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, report, err
	}
	span.SetAttributes(
		attribute.Int("files.found", report.FilesFound),
		attribute.Int("files.parsed", report.FilesParsed),
		attribute.Int("records", report.Records),
	)
	return records, report, nil
}

func (p *Pipeline) clean(ctx context.Context, records []domain.StreamRecord) ([]domain.Event, cleaner.Report) {
	ctx, span := p.tracer.Start(ctx, "pipeline.clean")
	defer span.End()

	events, report := cleaner.New(p.logger, p.cfg.MinDurationSeconds, p.cfg.MaxDropFraction).Clean(ctx, records)
	span.SetAttributes(
		attribute.Int("records.read", report.Read),
		attribute.Int("records.kept", report.Kept),
		attribute.Int("records.deduplicated", report.Deduplicated),
	)
	return events, report
}

func (p *Pipeline) buildDimensions(ctx context.Context, events []domain.Event) *dimensions.Dimensions {
	ctx, span := p.tracer.Start(ctx, "pipeline.dimensions")
	defer span.End()

	dims := dimensions.Build(events)
	span.SetAttributes(
		attribute.Int("artists", len(dims.Artists)),
		attribute.Int("tracks", len(dims.Tracks)),
		attribute.Int("dates", len(dims.Times)),
		attribute.Int("platforms", len(dims.Platforms)),
	)
	p.logger.InfoContext(ctx, "dimensions built",
		slog.Int("artists", len(dims.Artists)),
		slog.Int("tracks", len(dims.Tracks)),
		slog.Int("dates", len(dims.Times)),
		slog.Int("platforms", len(dims.Platforms)))
	return dims
}

func (p *Pipeline) buildFacts(ctx context.Context, events []domain.Event, dims *dimensions.Dimensions) ([]domain.FactRow, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.facts")
	defer span.End()

	factRows, err := facts.Build(ctx, p.logger, events, dims)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(factRows)))
	return factRows, nil
}

func (p *Pipeline) summarize(ctx context.Context, events []domain.Event) domain.Summary {
	ctx, span := p.tracer.Start(ctx, "pipeline.analytics")
	defer span.End()

	return analytics.NewSummarizer(p.logger).Generate(ctx, events)
}

func (p *Pipeline) write(ctx context.Context, ds domain.Dataset, summary domain.Summary) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.write")
	defer span.End()

	writer := exporter.NewCSVWriter(p.logger, p.cfg.OutputDir)
	if err := writer.WriteDataset(ctx, ds); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := writer.WriteSummary(ctx, summary); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if p.cfg.ExcelWorkbook {
		if err := writer.WriteWorkbook(ctx, ds, summary); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, stage string, err error) error {
	span.SetStatus(codes.Error, err.Error())
	p.logger.ErrorContext(ctx, "pipeline stage failed",
		slog.String("stage", stage),
		slog.String("error", err.Error()))
	return err
}
