package loader

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	apperrors "spotifyetl/internal/errors"
	"spotifyetl/pkg/contracts/domain"
)

// Report summarizes one load stage for observability and for the
// skipped-file guarantee: a file that was found but not parsed is always
// named here.
type Report struct {
	FilesFound   int
	FilesParsed  int
	SkippedFiles []string
	Records      int
}

// Loader reads streaming-history export files into memory
type Loader struct {
	logger  *slog.Logger
	workers int
}

// New creates a loader. workers bounds parallel file parsing; 1 parses
// sequentially.
func New(logger *slog.Logger, workers int) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Loader{logger: logger, workers: workers}
}

// Load discovers and parses every export file in dir and concatenates the
// records in filename order then record order within each file. A file that
// fails to parse is skipped and reported; the run only fails when the
// directory is unusable or no file parses.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.StreamRecord, Report, error) {
	files, err := FindExportFiles(dir)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{FilesFound: len(files)}
	if len(files) == 0 {
		return nil, report, apperrors.NewNotFoundError("streaming history files in " + dir)
	}

	l.logger.InfoContext(ctx, "export files discovered",
		slog.String("input_dir", dir),
		slog.Int("count", len(files)))

	// Parsing is embarrassingly parallel per file. Results are slotted by
	// file index so concatenation order equals the sequential case.
	perFile := make([][]domain.StreamRecord, len(files))
	perFileErr := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			perFile[i], perFileErr[i] = parseFile(file.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, apperrors.NewParsingError("load cancelled", err)
	}

	var records []domain.StreamRecord
	for i, file := range files {
		if perFileErr[i] != nil {
			l.logger.WarnContext(ctx, "skipping unparseable export file",
				slog.String("filename", file.Name),
				slog.String("error", perFileErr[i].Error()))
			report.SkippedFiles = append(report.SkippedFiles, file.Name)
			continue
		}

		l.logger.DebugContext(ctx, "parsed export file",
			slog.String("filename", file.Name),
			slog.Int("record_count", len(perFile[i])))
		report.FilesParsed++
		records = append(records, perFile[i]...)
	}

	if report.FilesParsed == 0 {
		return nil, report, apperrors.NewParsingError("no parseable export files in "+dir, nil)
	}

	report.Records = len(records)
	l.logger.InfoContext(ctx, "load complete",
		slog.Int("files_parsed", report.FilesParsed),
		slog.Int("files_skipped", len(report.SkippedFiles)),
		slog.Int("record_count", report.Records))

	return records, report, nil
}

// parseFile decodes one export file, which must hold a JSON array of
// stream records. Unknown fields are ignored by the decoder.
func parseFile(path string) ([]domain.StreamRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []domain.StreamRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
