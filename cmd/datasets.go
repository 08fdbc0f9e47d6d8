// =============================================================================
// SAP Vendor Reconciliation - Dataset Loading
// =============================================================================
//
// Shared helper for the commands: loads one dataset file into a table,
// picking the parser by file extension. Both parsers honor the dataset's
// header layout settings, so a workbook export and its CSV twin produce
// the same table.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/csvparser"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/xlsxparser"
)

// loadDataset reads one dataset file into a table.
//
// PARAMETERS:
//   - path: file to load (.csv, .txt, .xlsx, or .xlsm)
//   - dataset: layout settings for this dataset from the configuration
//
// RETURNS:
//   - *table.Table: the parsed rows
//   - error: if the file is missing, malformed, or has an unknown extension
func loadDataset(path string, dataset config.DatasetConfig) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(path, xlsxparser.OptionsFromDataset(dataset))
	case ".csv", ".txt":
		return csvparser.Parse(path, dataset.CSV)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q for %s (expected .csv or .xlsx)",
			filepath.Ext(path), path)
	}
}
