package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "spotifyetl/internal/errors"
)

// CSVWriter serializes tables into the output directory. Each table is
// written to a temporary file and renamed into place on success, so a
// failed run never leaves a partially written table behind under its
// final name.
type CSVWriter struct {
	logger *slog.Logger
	outDir string
}

// NewCSVWriter creates a writer rooted at the output directory.
func NewCSVWriter(logger *slog.Logger, outDir string) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, outDir: outDir}
}

// utf8BOM helps spreadsheet tools recognize UTF-8 encoded output.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteTable writes one table with its header row. Column order is fixed
// by the caller and stable across runs.
func (w *CSVWriter) WriteTable(filename string, headers []string, records [][]string) error {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("path", w.outDir)
	}

	finalPath := filepath.Join(w.outDir, filename)
	tmpPath := finalPath + ".tmp"

	if err := w.writeFile(tmpPath, headers, records); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewStorageError("failed to write table", err).
			WithContext("path", finalPath)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewStorageError("failed to finalize table", err).
			WithContext("path", finalPath)
	}

	w.logger.Debug("table written",
		slog.String("path", finalPath),
		slog.Int("record_count", len(records)))

	return nil
}

func (w *CSVWriter) writeFile(path string, headers []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return file.Close()
}
