// =============================================================================
// SAP Vendor Reconciliation - CSV Parser Module
// =============================================================================
//
// This module parses CSV exports into the table model the reconciliation
// stages operate on. It handles the format quirks of the upstream systems:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Multi-row headers
//   - Custom data start rows
//   - Inconsistent column counts between rows
//
// VALUE SEMANTICS:
//   Cells are trimmed; a cell that is empty after trimming is an absent
//   value (no key on the row), not an empty string. The reconciliation
//   stages rely on that distinction: an absent bank account is never a
//   mismatch, an absent vendor name never resolves a code.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a table.
//
// PARSING PROCESS:
//   1. Configure the CSV reader from the dataset's settings
//   2. Read and merge header rows (multi-row headers become single names)
//   3. Read data rows starting from the configured data start row
//   4. Assign each row its source row number as the stable row ID
//
// Blank rows are skipped. Row IDs of the remaining rows still reflect their
// position in the source file.
func Parse(filePath string, settings config.CSVSettings) (*table.Table, error) {
	if err := checkEncoding(settings.Encoding); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(bufio.NewReader(file))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", filePath)
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	tbl := table.New(filepath.Base(filePath), headers)
	if err := appendDataRows(tbl, allRows, headers, settings); err != nil {
		return nil, err
	}

	return tbl, nil
}

// checkEncoding rejects encodings the parser does not handle. The upstream
// exports are UTF-8; anything else must be converted before loading.
func checkEncoding(encoding string) error {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "UTF-8", "UTF8":
		return nil
	default:
		return fmt.Errorf("unsupported encoding %q (convert the file to UTF-8)", encoding)
	}
}

// configureReader applies the dataset's delimiter and relaxes the strict CSV
// rules the upstream exports routinely violate.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = delimiterRune(settings.Delimiter)

	// Upstream exports do not keep column counts consistent between header
	// and item rows, so let every record have its own width.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// delimiterRune maps the delimiter spellings that show up in configs to the
// rune the csv package expects. Unrecognized values fall back to their first
// byte; an empty value means comma.
func delimiterRune(delimiter string) rune {
	switch delimiter {
	case "", ",", "comma":
		return ','
	case "\\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		return rune(delimiter[0])
	}
}

// extractHeaders merges the configured number of header rows into one set of
// column names.
//
// MULTI-ROW HEADER HANDLING:
//   Some exports split headers over several rows. Non-empty fragments of a
//   column are joined with a space:
//
//   Row 1: "Vendor", "",     "Invoice"
//   Row 2: "Code",   "Name", "Number"
//   Result: "Vendor Code", "Name", "Invoice Number"
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}
	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	headerRows := allRows[:settings.HeaderRows]

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

// appendDataRows converts the data rows into table rows. The row ID is the
// 1-based source row number, so the first data row of a one-header-row file
// gets ID "2".
func appendDataRows(tbl *table.Table, allRows [][]string, headers []string, settings config.CSVSettings) error {
	startIndex := settings.DataStartRow - 1
	if startIndex < 0 {
		startIndex = settings.HeaderRows
	}

	if startIndex >= len(allRows) {
		return nil // header-only file
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

	return nil
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
