package csvparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func defaultSettings() config.CSVSettings {
	return config.CSVSettings{
		Delimiter:    ",",
		HeaderRows:   1,
		DataStartRow: 2,
		Encoding:     "UTF-8",
	}
}

func TestParseBasicFile(t *testing.T) {
	path := writeCSV(t, "procurement.csv",
		"record_type,vendor_code,invoice_number\n"+
			"H,V001,INV-1\n"+
			"I,,INV-1\n")

	tbl, err := Parse(path, defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "procurement.csv", tbl.Name)
	assert.Equal(t, []string{"record_type", "vendor_code", "invoice_number"}, tbl.Columns)
	require.Equal(t, 2, tbl.RowCount())

	assert.Equal(t, []string{"2", "3"}, tbl.RowIDs())

	code, ok := tbl.Rows[0].Get("vendor_code")
	assert.True(t, ok)
	assert.Equal(t, "V001", code)
}

func TestParseEmptyCellIsAbsent(t *testing.T) {
	path := writeCSV(t, "items.csv",
		"record_type,vendor_code,bank_account\n"+
			"I,,111\n"+
			"H,V001,   \n")

	tbl, err := Parse(path, defaultSettings())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())

	_, ok := tbl.Rows[0].Get("vendor_code")
	assert.False(t, ok, "empty cell should be absent, not empty string")

	_, ok = tbl.Rows[1].Get("bank_account")
	assert.False(t, ok, "whitespace-only cell should be absent")

	bank, ok := tbl.Rows[0].Get("bank_account")
	assert.True(t, ok)
	assert.Equal(t, "111", bank)
}

func TestParseDelimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		content   string
	}{
		{"semicolon", ";", "a;b\n1;2\n"},
		{"semicolon word", "semicolon", "a;b\n1;2\n"},
		{"pipe", "|", "a|b\n1|2\n"},
		{"tab escape", "\\t", "a\tb\n1\t2\n"},
		{"tab word", "tab", "a\tb\n1\t2\n"},
		{"default comma", "", "a,b\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "data.csv", tt.content)
			settings := defaultSettings()
			settings.Delimiter = tt.delimiter

			tbl, err := Parse(path, settings)
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b"}, tbl.Columns)
			require.Equal(t, 1, tbl.RowCount())

			a, _ := tbl.Rows[0].Get("a")
			b, _ := tbl.Rows[0].Get("b")
			assert.Equal(t, "1", a)
			assert.Equal(t, "2", b)
		})
	}
}

func TestParseMultiRowHeaders(t *testing.T) {
	path := writeCSV(t, "ledger.csv",
		"Vendor,,Invoice\n"+
			"Code,Name,Number\n"+
			"V001,Acme,INV-1\n")

	settings := defaultSettings()
	settings.HeaderRows = 2
	settings.DataStartRow = 3

	tbl, err := Parse(path, settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"Vendor Code", "Name", "Invoice Number"}, tbl.Columns)
	require.Equal(t, 1, tbl.RowCount())
	assert.Equal(t, "3", tbl.Rows[0].ID)

	name, ok := tbl.Rows[0].Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)
}

func TestParseSkipsBlankRows(t *testing.T) {
	// encoding/csv drops fully empty lines itself; rows of empty cells
	// survive it and must be skipped by the parser.
	path := writeCSV(t, "gaps.csv",
		"a,b\n"+
			"1,2\n"+
			",\n"+
			"3,4\n")

	tbl, err := Parse(path, defaultSettings())
	require.NoError(t, err)

	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"2", "4"}, tbl.RowIDs(), "row IDs keep source positions across skipped rows")
}

func TestParseUnnamedColumns(t *testing.T) {
	path := writeCSV(t, "raw.csv",
		"vendor_code,,amount\n"+
			"V001,x,10\n")

	tbl, err := Parse(path, defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor_code", "Column_2", "amount"}, tbl.Columns)

	v, ok := tbl.Rows[0].Get("Column_2")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestParseRaggedRows(t *testing.T) {
	path := writeCSV(t, "ragged.csv",
		"a,b,c\n"+
			"1,2\n"+
			"3,4,5,6\n")

	tbl, err := Parse(path, defaultSettings())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())

	_, ok := tbl.Rows[0].Get("c")
	assert.False(t, ok, "short row leaves trailing columns absent")

	c, ok := tbl.Rows[1].Get("c")
	assert.True(t, ok)
	assert.Equal(t, "5", c)
}

func TestParseHeaderOnlyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", "a,b,c\n")

	tbl, err := Parse(path, defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Columns)
	assert.Equal(t, 0, tbl.RowCount())
}

func TestParseErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), defaultSettings())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open file")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, "zero.csv", "")
		_, err := Parse(path, defaultSettings())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		path := writeCSV(t, "latin.csv", "a,b\n1,2\n")
		settings := defaultSettings()
		settings.Encoding = "latin-1"
		_, err := Parse(path, settings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported encoding")
	})

	t.Run("zero header rows", func(t *testing.T) {
		path := writeCSV(t, "nohdr.csv", "a,b\n1,2\n")
		settings := defaultSettings()
		settings.HeaderRows = 0
		_, err := Parse(path, settings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "header_rows")
	})
}
