package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
)

// writeWorkbook builds a workbook in a temp directory and returns its path.
func writeWorkbook(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()

	f := excelize.NewFile()
	build(f)

	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	return path
}

// setRow fills one sheet row starting at column A.
func setRow(t *testing.T, f *excelize.File, sheet string, rowNum int, values ...string) {
	t.Helper()

	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}
}

func TestParseFirstSheet(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		setRow(t, f, "Sheet1", 1, "vendor_code", "vendor_name", "bank_account")
		setRow(t, f, "Sheet1", 2, "V001", "Acme GmbH", "DE111")
		setRow(t, f, "Sheet1", 3, "V002", "Globex AG", "DE222")
	})

	tbl, err := Parse(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor_code", "vendor_name", "bank_account"}, tbl.Columns)
	require.Equal(t, 2, tbl.RowCount())

	assert.Equal(t, []string{"2", "3"}, tbl.RowIDs())

	code, ok := tbl.Rows[0].Get("vendor_code")
	assert.True(t, ok)
	assert.Equal(t, "V001", code)

	name, ok := tbl.Rows[0].Get("vendor_name")
	assert.True(t, ok)
	assert.Equal(t, "Acme GmbH", name)

	bank, ok := tbl.Rows[1].Get("bank_account")
	assert.True(t, ok)
	assert.Equal(t, "DE222", bank)
}

func TestParseNamedSheet(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		_, err := f.NewSheet("Vendors")
		require.NoError(t, err)
		setRow(t, f, "Vendors", 1, "vendor_code", "vendor_name")
		setRow(t, f, "Vendors", 2, "V001", "Acme GmbH")
		// Decoy data on the default sheet.
		setRow(t, f, "Sheet1", 1, "wrong_column")
		setRow(t, f, "Sheet1", 2, "wrong_value")
	})

	tbl, err := Parse(path, Options{Sheet: "Vendors"})
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor_code", "vendor_name"}, tbl.Columns)
	require.Equal(t, 1, tbl.RowCount())

	name, ok := tbl.Rows[0].Get("vendor_name")
	assert.True(t, ok)
	assert.Equal(t, "Acme GmbH", name)
}

func TestParseMissingSheet(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		setRow(t, f, "Sheet1", 1, "vendor_code")
	})

	_, err := Parse(path, Options{Sheet: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Nope"`)
	assert.Contains(t, err.Error(), "Sheet1")
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "absent.xlsx"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestParseMultiRowHeader(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		setRow(t, f, "Sheet1", 1, "vendor", "vendor", "bank")
		setRow(t, f, "Sheet1", 2, "code", "name", "account")
		setRow(t, f, "Sheet1", 3, "V001", "Acme GmbH", "DE111")
	})

	tbl, err := Parse(path, Options{HeaderRows: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor code", "vendor name", "bank account"}, tbl.Columns)
	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, "3", tbl.Rows[0].ID)

	code, ok := tbl.Rows[0].Get("vendor code")
	assert.True(t, ok)
	assert.Equal(t, "V001", code)
}

func TestParseDataStartRowSkipsNotes(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		setRow(t, f, "Sheet1", 1, "vendor_code", "vendor_name")
		setRow(t, f, "Sheet1", 2, "exported 2024-01-31") // note row, not data
		setRow(t, f, "Sheet1", 3, "V001", "Acme GmbH")
	})

	tbl, err := Parse(path, Options{HeaderRows: 1, DataStartRow: 3})
	require.NoError(t, err)

	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, "3", tbl.Rows[0].ID)
}

func TestParseEmptyCellsAreAbsent(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		setRow(t, f, "Sheet1", 1, "vendor_code", "vendor_name", "bank_account")
		setRow(t, f, "Sheet1", 2, "V001", "", "DE111")
		setRow(t, f, "Sheet1", 3, "V002", "Globex AG") // trailing cell never written
	})

	tbl, err := Parse(path, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())

	assert.False(t, tbl.Rows[0].Has("vendor_name"))
	assert.True(t, tbl.Rows[0].Has("bank_account"))
	assert.False(t, tbl.Rows[1].Has("bank_account"))
}

func TestParseSkipsBlankRowsKeepsIDs(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		setRow(t, f, "Sheet1", 1, "vendor_code")
		setRow(t, f, "Sheet1", 2, "V001")
		// Row 3 left blank on purpose.
		setRow(t, f, "Sheet1", 4, "V002")
	})

	tbl, err := Parse(path, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, "2", tbl.Rows[0].ID)
	assert.Equal(t, "4", tbl.Rows[1].ID)
}

func TestOptionsFromDataset(t *testing.T) {
	dataset := config.DatasetConfig{
		Sheet: "Master",
		CSV: config.CSVSettings{
			HeaderRows:   2,
			DataStartRow: 4,
		},
	}

	opts := OptionsFromDataset(dataset)

	assert.Equal(t, "Master", opts.Sheet)
	assert.Equal(t, 2, opts.HeaderRows)
	assert.Equal(t, 4, opts.DataStartRow)
}
