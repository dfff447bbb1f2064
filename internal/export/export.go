// Package export writes the intake history as a spreadsheet or CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/TobiasBrasser/aquabalance/internal/calculator"
	"github.com/TobiasBrasser/aquabalance/internal/models"
)

const (
	EntriesSheet = "History"
	DailySheet   = "Daily"

	timeLayout = "2006-01-02 15:04"
	dateLayout = "2006-01-02"
)

var entryHeaders = []string{"ID", "Recorded at", "Kind", "Logged (L)", "Increment (L)"}

// WriteXLSX writes two sheets: every history entry with its increment, and
// the per-day totals of summary followed by the overall figures.
func WriteXLSX(w io.Writer, entries []models.HistoryEntry, summary calculator.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(EntriesSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(DailySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	resetStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeHeader(f, EntriesSheet, entryHeaders, headerStyle); err != nil {
		return err
	}
	increments := calculator.Increments(entries)
	for i, e := range entries {
		row := i + 2
		values := []any{e.ID, formatTime(e), kindOf(e), e.LoggedAmount, calculator.Round2(increments[i])}
		if err := setRow(f, EntriesSheet, row, values); err != nil {
			return err
		}
		if e.IsReset() {
			f.SetCellStyle(EntriesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), resetStyle)
		}
	}
	f.SetColWidth(EntriesSheet, "A", "A", 38)
	f.SetColWidth(EntriesSheet, "B", "B", 18)
	f.SetColWidth(EntriesSheet, "C", "E", 14)

	if err := writeHeader(f, DailySheet, []string{"Date", "Day", "Liters"}, headerStyle); err != nil {
		return err
	}
	row := 2
	for _, d := range summary.Days {
		if err := setRow(f, DailySheet, row, []any{d.Date.Format(dateLayout), d.Label, calculator.Round2(d.Liters)}); err != nil {
			return err
		}
		row++
	}
	row++
	totals := [][]any{
		{"Total", "", calculator.Round2(summary.TotalLiters)},
		{"Daily average", "", calculator.Round2(summary.DailyAverageLiters)},
		{"Average entry", "", calculator.Round2(summary.AverageEntryLiters)},
		{"Entries", "", summary.Entries},
	}
	for _, values := range totals {
		if err := setRow(f, DailySheet, row, values); err != nil {
			return err
		}
		row++
	}
	f.SetColWidth(DailySheet, "A", "A", 16)

	f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes one row per history entry with a header row.
func WriteCSV(w io.Writer, entries []models.HistoryEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(entryHeaders); err != nil {
		return err
	}
	increments := calculator.Increments(entries)
	for i, e := range entries {
		record := []string{
			e.ID,
			formatTime(e),
			string(kindOf(e)),
			strconv.FormatFloat(e.LoggedAmount, 'f', -1, 64),
			strconv.FormatFloat(calculator.Round2(increments[i]), 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatTime(e models.HistoryEntry) string {
	t := e.Time()
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// kindOf treats entries from older stores as logging events.
func kindOf(e models.HistoryEntry) models.EntryKind {
	if e.Kind == "" {
		return models.EntryLogged
	}
	return e.Kind
}
