// =============================================================================
// SAP Vendor Reconciliation - Output Writers
// =============================================================================
//
// This module writes reconciled tables to disk in the configured output
// format: CSV via encoding/csv or XLSX via excelize. Column order follows
// the table's declared order, so source columns come first and the derived
// columns appear where the stages appended them.
//
// Absent values and empty strings both land as empty cells; the distinction
// exists only in memory. Boolean flag columns are stored as "true"/"false"
// strings and pass through unchanged.
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// =============================================================================
// WRITER
// =============================================================================

// Writer writes tables in one configured output format.
type Writer struct {
	// Format is "csv" or "xlsx".
	Format string
}

// NewWriter creates a Writer for the configured output format.
func NewWriter(cfg *config.Config) *Writer {
	return &Writer{Format: cfg.OutputFormat}
}

// Extension returns the file extension for the configured format,
// including the dot.
func (w *Writer) Extension() string {
	if w.Format == "xlsx" {
		return ".xlsx"
	}
	return ".csv"
}

// Write writes the table to path in the configured format.
func (w *Writer) Write(tbl *table.Table, path string) error {
	switch w.Format {
	case "xlsx":
		return WriteXLSX(tbl, path)
	case "csv", "":
		return WriteCSV(tbl, path)
	default:
		return fmt.Errorf("unsupported output format %q", w.Format)
	}
}

// =============================================================================
// FORMAT IMPLEMENTATIONS
// =============================================================================

// WriteCSV writes the table as comma-separated values with a header row.
func WriteCSV(tbl *table.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(tbl.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, col := range tbl.Columns {
			value, _ := row.Get(col) // absent writes as empty
			record[i] = value
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// WriteXLSX writes the table as a single-sheet workbook with a header row.
func WriteXLSX(tbl *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, col := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for r, row := range tbl.Rows {
		for c, col := range tbl.Columns {
			value, ok := row.Get(col)
			if !ok {
				continue // absent stays blank
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to address cell for row %s: %w", row.ID, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell for row %s: %w", row.ID, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
