// =============================================================================
// SAP Vendor Reconciliation - Stage 3: Bank Account Validation
// =============================================================================

package reconcile

import (
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// BankValidator flags H rows whose ledger bank account differs from the
// SAP-sourced one. It only needs the enricher's output; stage 2 is not a
// prerequisite.
type BankValidator struct {
	// Procurement maps logical fields to the procurement batch's columns.
	Procurement config.ColumnMap
}

// NewBankValidator creates a BankValidator with a resolved column map.
func NewBankValidator(procurement config.ColumnMap) *BankValidator {
	return &BankValidator{Procurement: procurement}
}

// Validate sets bank_account_mismatch on every row, in place: false
// everywhere, then true for H rows where both bank values are present and
// differ by exact string comparison. A value absent on either side is never
// a mismatch, and a batch without bank columns comes back all-false rather
// than erroring. Values are never modified, only flagged.
func (v *BankValidator) Validate(procurement *table.Table) *table.Table {
	procurement.AddColumn(ColumnBankMismatch)
	for _, row := range procurement.Rows {
		row.SetBool(ColumnBankMismatch, false)
	}

	// Nothing to compare unless both sides exist as columns at all.
	if !procurement.HasColumn(v.Procurement.BankAccount) || !procurement.HasColumn(ColumnBankAccountSAP) {
		return procurement
	}

	for _, row := range procurement.Rows {
		if recordType, _ := row.Get(v.Procurement.RecordType); recordType != RecordTypeHeader {
			continue
		}

		ledgerBank, ok := row.Get(v.Procurement.BankAccount)
		if !ok {
			continue
		}
		sapBank, ok := row.Get(ColumnBankAccountSAP)
		if !ok {
			continue
		}

		row.SetBool(ColumnBankMismatch, ledgerBank != sapBank)
	}

	return procurement
}
