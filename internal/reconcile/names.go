// =============================================================================
// SAP Vendor Reconciliation - Stage 2: Vendor Name Reconciliation
// =============================================================================
//
// The reconciler cross-checks the SAP-sourced vendor name against the name
// recorded on the matching invoice. The invoice register is treated as the
// record to fix: where the two names differ, a corrected copy of the
// register gets the SAP name written back. The input register is never
// mutated.
//
// =============================================================================

package reconcile

import (
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// NameReconciler validates vendor names between the enriched procurement
// ledger and the invoice register.
type NameReconciler struct {
	// Procurement maps logical fields to the procurement batch's columns.
	Procurement config.ColumnMap

	// Invoices maps logical fields to the invoice register's columns.
	Invoices config.ColumnMap
}

// NewNameReconciler creates a NameReconciler with resolved column maps.
func NewNameReconciler(procurement, invoices config.ColumnMap) *NameReconciler {
	return &NameReconciler{Procurement: procurement, Invoices: invoices}
}

// Reconcile attaches vendor_name_inv to procurement H rows (in place) and
// returns the procurement table together with a corrected copy of the
// invoice register.
//
// The copy carries vendor_name_updated=false on every row. For each H row
// whose invoice name is present and differs from vendor_name_sap, the
// invoice number maps to the SAP name; every invoice row with that number
// gets its vendor name overwritten and the flag set. Rows without a
// mismatch stay exactly as in the original. There is no failure path:
// procurement rows whose invoice number matches nothing are skipped.
func (r *NameReconciler) Reconcile(procurement, invoices *table.Table) (*table.Table, *table.Table) {
	// Invoice lookup: last present name wins when a number repeats.
	nameByInvoice := make(map[string]string, invoices.RowCount())
	for _, row := range invoices.Rows {
		number, ok := row.Get(r.Invoices.InvoiceNumber)
		if !ok {
			continue
		}
		if name, ok := row.Get(r.Invoices.VendorName); ok {
			nameByInvoice[number] = name
		}
	}

	procurement.AddColumn(ColumnVendorNameInvoice)

	corrected := invoices.Clone()
	corrected.AddColumn(ColumnVendorNameUpdated)
	for _, row := range corrected.Rows {
		row.SetBool(ColumnVendorNameUpdated, false)
	}

	// Mismatch pass: derive the invoice_number -> correct name map from
	// H rows. Conflicting pairs for the same number resolve by last write
	// in row order.
	corrections := make(map[string]string)
	for _, row := range procurement.Rows {
		if recordType, _ := row.Get(r.Procurement.RecordType); recordType != RecordTypeHeader {
			continue
		}

		number, ok := row.Get(r.Procurement.InvoiceNumber)
		if !ok {
			continue
		}
		invoiceName, ok := nameByInvoice[number]
		if !ok {
			continue
		}
		row.Set(ColumnVendorNameInvoice, invoiceName)

		// A row the enricher never resolved has no correction value.
		sapName, ok := row.Get(ColumnVendorNameSAP)
		if !ok {
			continue
		}
		if invoiceName != sapName {
			corrections[number] = sapName
		}
	}

	if len(corrections) > 0 {
		for _, row := range corrected.Rows {
			number, ok := row.Get(r.Invoices.InvoiceNumber)
			if !ok {
				continue
			}
			if correctName, ok := corrections[number]; ok {
				row.Set(r.Invoices.VendorName, correctName)
				row.SetBool(ColumnVendorNameUpdated, true)
			}
		}
	}

	return procurement, corrected
}
