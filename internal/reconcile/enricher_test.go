package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichHeaderRows(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V001", "bank_account": "111", "invoice_number": "INV-1"},
		map[string]string{"record_type": "I", "vendor_code": "V001", "amount": "10.00"},
		map[string]string{"record_type": "H", "vendor_code": "V002", "bank_account": "333", "invoice_number": "INV-2"},
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme", "bank_account": "222"},
		map[string]string{"vendor_code": "V002", "vendor_name": "Globex", "bank_account": "333"},
	)

	enricher := NewEnricher(testColumns(), testColumns())
	got, err := enricher.Enrich(procurement, master)
	require.NoError(t, err)
	require.Same(t, procurement, got, "enrichment mutates its input in place")

	// H rows carry the SAP-sourced values.
	name, ok := procurement.Rows[0].Get(ColumnVendorNameSAP)
	require.True(t, ok)
	assert.Equal(t, "Acme", name)
	bank, ok := procurement.Rows[0].Get(ColumnBankAccountSAP)
	require.True(t, ok)
	assert.Equal(t, "222", bank)

	name, _ = procurement.Rows[2].Get(ColumnVendorNameSAP)
	assert.Equal(t, "Globex", name)

	// The derived columns joined the declared column order.
	assert.True(t, procurement.HasColumn(ColumnVendorNameSAP))
	assert.True(t, procurement.HasColumn(ColumnBankAccountSAP))
}

func TestEnrichNonHRowsUntouched(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "I", "vendor_code": "V404", "bank_account": "999"},
		map[string]string{"record_type": "", "vendor_code": "V404"},
		map[string]string{"amount": "5.00"}, // no record_type at all
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme", "bank_account": "222"},
	)

	_, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.NoError(t, err, "unresolvable codes on non-H rows are not a failure")

	for _, row := range procurement.Rows {
		assert.False(t, row.Has(ColumnVendorNameSAP), "row %s must stay untouched", row.ID)
		assert.False(t, row.Has(ColumnBankAccountSAP), "row %s must stay untouched", row.ID)
	}
}

func TestEnrichReportsAllMissingCodes(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V111", "invoice_number": "INV-1"},
		map[string]string{"record_type": "H", "vendor_code": "V001", "invoice_number": "INV-2"},
		map[string]string{"record_type": "H", "vendor_code": "V222", "invoice_number": "INV-3"},
		map[string]string{"record_type": "H", "vendor_code": "V111", "invoice_number": "INV-4"},
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme", "bank_account": "222"},
	)

	got, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.Error(t, err)

	var notFound *VendorNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"V111", "V222"}, notFound.Codes,
		"all distinct missing codes, first-occurrence order, deduplicated")
	assert.Equal(t, "batch.csv", notFound.Dataset)

	assert.True(t, errors.Is(err, ErrVendorNotFound))
	assert.True(t, IsVendorNotFound(err))

	// Resolvable rows were enriched before the failure was reported; the
	// partially enriched table is handed back for inspection.
	require.NotNil(t, got)
	name, ok := got.Rows[1].Get(ColumnVendorNameSAP)
	require.True(t, ok)
	assert.Equal(t, "Acme", name)
}

func TestEnrichMasterWithoutBankColumn(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V001", "bank_account": "111"},
	)
	master := newTestTable("vendor_master.csv", []string{"vendor_code", "vendor_name"},
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme"},
	)

	_, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.NoError(t, err)

	name, ok := procurement.Rows[0].Get(ColumnVendorNameSAP)
	require.True(t, ok)
	assert.Equal(t, "Acme", name)

	assert.False(t, procurement.HasColumn(ColumnBankAccountSAP),
		"no bank column in the master means no bank_account_sap at all")
	assert.False(t, procurement.Rows[0].Has(ColumnBankAccountSAP))
}

func TestEnrichDuplicateMasterCodesLastWins(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V001"},
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme Old", "bank_account": "111"},
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme New", "bank_account": "222"},
	)

	_, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.NoError(t, err)

	name, _ := procurement.Rows[0].Get(ColumnVendorNameSAP)
	bank, _ := procurement.Rows[0].Get(ColumnBankAccountSAP)
	assert.Equal(t, "Acme New", name)
	assert.Equal(t, "222", bank)
}

func TestEnrichEmptyMasterNameIsPresent(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V001"},
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "", "bank_account": "222"},
	)

	_, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.NoError(t, err, "an empty vendor name still resolves the code")

	name, ok := procurement.Rows[0].Get(ColumnVendorNameSAP)
	require.True(t, ok)
	assert.Equal(t, "", name)
}

func TestEnrichMasterRowWithoutNameActsMissing(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V001"},
	)
	// Code present, name absent: the code cannot resolve to anything.
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "bank_account": "222"},
	)

	_, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.Error(t, err)

	var notFound *VendorNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"V001"}, notFound.Codes)
}

func TestEnrichPreservesRowOrderAndMaster(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V002"},
		map[string]string{"record_type": "I"},
		map[string]string{"record_type": "H", "vendor_code": "V001"},
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme", "bank_account": "222"},
		map[string]string{"vendor_code": "V002", "vendor_name": "Globex", "bank_account": "333"},
	)

	wantIDs := procurement.RowIDs()
	wantMaster := master.Clone()

	_, err := NewEnricher(testColumns(), testColumns()).Enrich(procurement, master)
	require.NoError(t, err)

	assert.Equal(t, wantIDs, procurement.RowIDs(), "row identity and order survive enrichment")
	require.Equal(t, wantMaster.RowIDs(), master.RowIDs())
	for i, row := range master.Rows {
		assert.Equal(t, wantMaster.Rows[i].Fields, row.Fields, "vendor master is read-only")
	}
	assert.Equal(t, wantMaster.Columns, master.Columns)
}

func TestEnrichIsIdempotent(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "vendor_code": "V001", "bank_account": "111"},
		map[string]string{"record_type": "I", "amount": "3.50"},
	)
	master := newTestTable("vendor_master.csv", masterColumns,
		map[string]string{"vendor_code": "V001", "vendor_name": "Acme", "bank_account": "222"},
	)

	enricher := NewEnricher(testColumns(), testColumns())
	_, err := enricher.Enrich(procurement, master)
	require.NoError(t, err)

	first := procurement.Clone()

	_, err = enricher.Enrich(procurement, master)
	require.NoError(t, err)

	require.Equal(t, first.RowIDs(), procurement.RowIDs())
	assert.Equal(t, first.Columns, procurement.Columns)
	for i, row := range procurement.Rows {
		assert.Equal(t, first.Rows[i].Fields, row.Fields, "second run changes nothing")
	}
}
