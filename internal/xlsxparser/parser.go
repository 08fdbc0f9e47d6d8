// =============================================================================
// SAP Vendor Reconciliation - XLSX Parser Module
// =============================================================================
//
// This module parses XLSX workbooks into the table model. The SAP vendor
// master and some procurement exports arrive as workbooks rather than CSV;
// both formats load into the same table shape, so the reconciliation stages
// never know which one a dataset came from.
//
// SHEET SELECTION:
//   The dataset's configured sheet name, or the first sheet when none is
//   configured. A configured name that does not exist is an error rather
//   than a silent fallback.
//
// VALUE SEMANTICS:
//   Identical to the CSV parser: cells are trimmed, a cell that is empty
//   after trimming is an absent value, multi-row headers are merged, and
//   the stable row ID is the source sheet row number.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// =============================================================================
// PARSE OPTIONS
// =============================================================================

// Options control sheet selection and header layout for one workbook.
type Options struct {
	// Sheet is the worksheet to read. Empty selects the first sheet.
	Sheet string

	// HeaderRows is the number of header rows. Multi-row headers are merged
	// into single column names. Values below 1 default to 1.
	HeaderRows int

	// DataStartRow is the 1-based sheet row where data begins. Values below
	// 1 default to the row after the headers.
	DataStartRow int
}

// OptionsFromDataset derives parse options from a dataset profile. The
// header layout settings are shared with the CSV parser so a dataset keeps
// the same shape whichever format it arrives in.
func OptionsFromDataset(dataset config.DatasetConfig) Options {
	return Options{
		Sheet:        dataset.Sheet,
		HeaderRows:   dataset.CSV.HeaderRows,
		DataStartRow: dataset.CSV.DataStartRow,
	}
}

// normalize fills unset layout values.
func (o Options) normalize() Options {
	if o.HeaderRows < 1 {
		o.HeaderRows = 1
	}
	if o.DataStartRow < 1 {
		o.DataStartRow = o.HeaderRows + 1
	}
	return o
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads one sheet of an XLSX workbook into a table.
//
// PARSING PROCESS:
//   1. Open the workbook and pick the sheet
//   2. Read and merge header rows (multi-row headers become single names)
//   3. Read data rows starting from the configured data start row
//   4. Assign each row its sheet row number as the stable row ID
//
// Blank rows are skipped. Row IDs of the remaining rows still reflect their
// position in the source sheet.
func Parse(filePath string, opts Options) (*table.Table, error) {
	opts = opts.normalize()

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	allRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("sheet %q of %s is empty", sheet, filepath.Base(filePath))
	}

	headers, err := extractHeaders(allRows, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	tbl := table.New(filepath.Base(filePath), headers)
	appendDataRows(tbl, allRows, headers, opts)

	return tbl, nil
}

// pickSheet resolves the worksheet to read.
func pickSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		sheet := f.GetSheetName(0)
		if sheet == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return sheet, nil
	}

	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return name, nil
		}
	}

	return "", fmt.Errorf("workbook has no sheet %q (available: %s)",
		name, strings.Join(f.GetSheetList(), ", "))
}

// extractHeaders merges the configured number of header rows into one set of
// column names. Non-empty fragments of a column are joined with a space,
// exactly as the CSV parser merges multi-row headers.
func extractHeaders(allRows [][]string, opts Options) ([]string, error) {
	if len(allRows) < opts.HeaderRows {
		return nil, fmt.Errorf("sheet has fewer rows than the header row count")
	}

	headerRows := allRows[:opts.HeaderRows]

	width := 0
	for _, row := range headerRows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	for col := range headers {
		var parts []string
		for _, row := range headerRows {
			if col >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[col]); v != "" {
				parts = append(parts, v)
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims header values and names unnamed columns by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		if h = strings.TrimSpace(h); h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = h
	}
	return cleaned
}

// appendDataRows converts the sheet's data rows into table rows. The row ID
// is the 1-based sheet row number, so the first data row under a single
// header row gets ID "2".
func appendDataRows(tbl *table.Table, allRows [][]string, headers []string, opts Options) {
	startIndex := opts.DataStartRow - 1
	if startIndex >= len(allRows) {
		return // header-only sheet
	}

	for rowIndex := startIndex; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]

		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string)
		for colIndex, header := range headers {
			if colIndex >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[colIndex])
			if value == "" {
				continue // absent, not empty
			}
			fields[header] = value
		}

		tbl.Append(strconv.Itoa(rowIndex+1), fields)
	}
}

// isRowEmpty reports whether every cell in the row trims to nothing.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
