package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAttachesAndCorrects(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp", "amount": "99.00"},
	)

	reconciler := NewNameReconciler(testColumns(), testColumns())
	gotProcurement, corrected := reconciler.Reconcile(procurement, invoices)
	require.Same(t, procurement, gotProcurement)
	require.NotNil(t, corrected)

	invoiceName, ok := procurement.Rows[0].Get(ColumnVendorNameInvoice)
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", invoiceName)

	// The register's name disagreed with SAP, so the copy gets the SAP name.
	name, _ := corrected.Rows[0].Get("vendor_name")
	assert.Equal(t, "Acme", name)
	assert.True(t, corrected.Rows[0].Bool(ColumnVendorNameUpdated))

	// Passthrough fields of the corrected row are untouched.
	amount, _ := corrected.Rows[0].Get("amount")
	assert.Equal(t, "99.00", amount)
}

func TestReconcileInputRegisterNeverMutated(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)
	require.NotSame(t, invoices, corrected, "the reconciler returns a copy")

	original, _ := invoices.Rows[0].Get("vendor_name")
	assert.Equal(t, "Acme Corp", original, "the input register keeps its value")
	assert.False(t, invoices.HasColumn(ColumnVendorNameUpdated))
	assert.False(t, invoices.Rows[0].Has(ColumnVendorNameUpdated))
}

func TestReconcileMatchingNamesLeftAlone(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme", "amount": "10.00"},
		map[string]string{"invoice_number": "INV-9", "vendor_name": "Unrelated"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	for i, row := range corrected.Rows {
		assert.False(t, row.Bool(ColumnVendorNameUpdated), "row %d must not be flagged", i)

		// Except for the added default-false flag, rows match the original.
		want := invoices.Rows[i].Clone()
		want.SetBool(ColumnVendorNameUpdated, false)
		assert.Equal(t, want.Fields, row.Fields)
	}
}

func TestReconcileNoMatchingInvoice(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-404", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Someone"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	assert.False(t, procurement.Rows[0].Has(ColumnVendorNameInvoice),
		"no invoice match leaves vendor_name_inv absent")
	assert.False(t, corrected.Rows[0].Bool(ColumnVendorNameUpdated))
	name, _ := corrected.Rows[0].Get("vendor_name")
	assert.Equal(t, "Someone", name)
}

func TestReconcileDuplicateInvoiceRowsAllCorrected(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme GmbH"},
		map[string]string{"invoice_number": "INV-2", "vendor_name": "Globex"},
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	first, _ := corrected.Rows[0].Get("vendor_name")
	third, _ := corrected.Rows[2].Get("vendor_name")
	assert.Equal(t, "Acme", first)
	assert.Equal(t, "Acme", third, "every row sharing the invoice number is corrected")
	assert.True(t, corrected.Rows[0].Bool(ColumnVendorNameUpdated))
	assert.True(t, corrected.Rows[2].Bool(ColumnVendorNameUpdated))

	untouched, _ := corrected.Rows[1].Get("vendor_name")
	assert.Equal(t, "Globex", untouched)
	assert.False(t, corrected.Rows[1].Bool(ColumnVendorNameUpdated))
}

func TestReconcileLookupLastWriteWins(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "First"},
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Second"},
	)

	NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	got, ok := procurement.Rows[0].Get(ColumnVendorNameInvoice)
	require.True(t, ok)
	assert.Equal(t, "Second", got, "repeated invoice numbers resolve to the last written name")
}

func TestReconcileNonHRowsIgnored(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "I", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	assert.False(t, procurement.Rows[0].Has(ColumnVendorNameInvoice))
	assert.False(t, corrected.Rows[0].Bool(ColumnVendorNameUpdated))
}

func TestReconcileSkipsRowsWithoutSAPName(t *testing.T) {
	// Only reachable when stage 2 runs on un-enriched input: there is no
	// correction value, so the register row stays as-is.
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	got, ok := procurement.Rows[0].Get(ColumnVendorNameInvoice)
	require.True(t, ok, "the invoice name still gets attached")
	assert.Equal(t, "Acme Corp", got)

	name, _ := corrected.Rows[0].Get("vendor_name")
	assert.Equal(t, "Acme Corp", name)
	assert.False(t, corrected.Rows[0].Bool(ColumnVendorNameUpdated))
}

func TestReconcileConflictingPairsLastWins(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme Ltd"},
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme AG"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp"},
	)

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	name, _ := corrected.Rows[0].Get("vendor_name")
	assert.Equal(t, "Acme AG", name, "conflicting pairs resolve by last write in row order")
}

func TestReconcilePreservesRowOrder(t *testing.T) {
	procurement := newTestTable("batch.csv", procurementColumns,
		map[string]string{"record_type": "H", "invoice_number": "INV-2", ColumnVendorNameSAP: "Globex"},
		map[string]string{"record_type": "H", "invoice_number": "INV-1", ColumnVendorNameSAP: "Acme"},
	)
	invoices := newTestTable("invoices.csv", invoiceColumns,
		map[string]string{"invoice_number": "INV-1", "vendor_name": "Acme Corp"},
		map[string]string{"invoice_number": "INV-2", "vendor_name": "Globex Inc"},
		map[string]string{"invoice_number": "INV-3", "vendor_name": "Initech"},
	)

	wantProcurementIDs := procurement.RowIDs()
	wantInvoiceIDs := invoices.RowIDs()

	_, corrected := NewNameReconciler(testColumns(), testColumns()).Reconcile(procurement, invoices)

	assert.Equal(t, wantProcurementIDs, procurement.RowIDs())
	assert.Equal(t, wantInvoiceIDs, corrected.RowIDs(), "the copy keeps the register's row identity and order")
}
