package exporter

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "spotifyetl/internal/errors"
	"spotifyetl/pkg/contracts/domain"
)

// FileWorkbook is the optional Excel export bundling every table for ad-hoc
// inspection outside the BI tool.
const FileWorkbook = "streaming_history.xlsx"

// WriteWorkbook writes all tables plus a KPI sheet into one xlsx workbook.
func (w *CSVWriter) WriteWorkbook(ctx context.Context, ds domain.Dataset, summary domain.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{"Artists", artistHeaders, artistRecords(ds.Artists)},
		{"Tracks", trackHeaders, trackRecords(ds.Tracks)},
		{"Dates", timeHeaders, timeRecords(ds.Times)},
		{"Platforms", platformHeaders, platformRecords(ds.Platforms)},
		{"Plays", factHeaders, factRecords(ds.Facts)},
		{"Daily", dailyHeaders, dailyRecords(summary.Daily)},
		{"ArtistSummary", artistSumHdrs, artistSummaryRecords(summary.Artists)},
		{"TrackSummary", trackSumHdrs, trackSummaryRecords(summary.Tracks)},
		{"Hourly", hourlyHeaders, hourlyRecords(summary.Hourly)},
		{"Weekly", weeklyHeaders, weeklyRecords(summary.Weekly)},
		{"Monthly", monthlyHeaders, monthlyRecords(summary.Monthly)},
		{"PlatformShare", platformShHdrs, platformShareRecords(summary.Platform)},
	}

	if err := writeKPISheet(f, summary.KPIs); err != nil {
		return apperrors.NewStorageError("failed to build KPI sheet", err)
	}

	for _, sheet := range sheets {
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.records); err != nil {
			return apperrors.NewStorageError("failed to build workbook sheet", err).
				WithContext("sheet", sheet.name)
		}
	}

	path := filepath.Join(w.outDir, FileWorkbook)
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to write workbook", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "workbook written",
		slog.String("path", path),
		slog.Int("sheet_count", len(sheets)+1))

	return nil
}

// writeKPISheet renames the default sheet and fills it with the headline
// figures as name/value pairs.
func writeKPISheet(f *excelize.File, kpis domain.KPIReport) error {
	const sheet = "KPIs"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"metric", "value"},
		{"total_minutes", kpis.TotalMinutes},
		{"total_hours", kpis.TotalHours},
		{"total_plays", kpis.TotalPlays},
		{"unique_artists", kpis.UniqueArtists},
		{"unique_tracks", kpis.UniqueTracks},
		{"skip_rate", kpis.SkipRate},
		{"completion_rate", kpis.CompletionRate},
		{"listening_days", kpis.ListeningDays},
		{"avg_daily_minutes", kpis.AvgDailyMinutes},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, headers []string, records [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}

	for i, record := range records {
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
