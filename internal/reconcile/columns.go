// =============================================================================
// SAP Vendor Reconciliation - Column Contract
// =============================================================================

package reconcile

// RecordTypeHeader marks procurement rows that carry vendor-level data.
// Only these rows are enriched and validated; item rows pass through
// untouched. The value is a fixed business rule, not configuration; only
// column names are configurable.
const RecordTypeHeader = "H"

// Derived columns the stages add to their outputs. The names are part of
// the output contract and are not configurable.
const (
	// ColumnVendorNameSAP is the vendor name resolved from the vendor
	// master, added to procurement H rows by the enricher.
	ColumnVendorNameSAP = "vendor_name_sap"

	// ColumnBankAccountSAP is the bank account resolved from the vendor
	// master, added when the master exposes a bank column.
	ColumnBankAccountSAP = "bank_account_sap"

	// ColumnVendorNameInvoice is the vendor name found in the invoice
	// register for the row's invoice number.
	ColumnVendorNameInvoice = "vendor_name_inv"

	// ColumnBankMismatch flags H rows whose ledger bank account differs
	// from the SAP-sourced one. Defaults to false on every row.
	ColumnBankMismatch = "bank_account_mismatch"

	// ColumnVendorNameUpdated flags corrected rows in the invoice copy.
	// Defaults to false on every row.
	ColumnVendorNameUpdated = "vendor_name_updated"
)
