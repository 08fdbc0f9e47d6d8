// =============================================================================
// SAP Vendor Reconciliation - Stage 1: Vendor Code Enrichment
// =============================================================================
//
// The enricher joins procurement H rows against the vendor master by vendor
// code and attaches the SAP-sourced vendor name and bank account. The join
// is a per-row lookup, never a relational join: row identity and order are
// preserved even when keys repeat on either side.
//
// FAILURE:
//   A vendor code with no master match is the one hard failure of the whole
//   pipeline. The enricher finishes the scan first so the error carries
//   every unmatched code, not just the first.
//
// =============================================================================

package reconcile

import (
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// Enricher attaches vendor master data to procurement H rows.
type Enricher struct {
	// Procurement maps logical fields to the procurement batch's columns.
	Procurement config.ColumnMap

	// Master maps logical fields to the vendor master's columns.
	Master config.ColumnMap
}

// NewEnricher creates an Enricher with column maps resolved once up front.
func NewEnricher(procurement, master config.ColumnMap) *Enricher {
	return &Enricher{Procurement: procurement, Master: master}
}

// Enrich adds vendor_name_sap (and bank_account_sap when the master has a
// bank column) to every H row of the procurement table, in place. Non-H
// rows are untouched and keep the derived columns absent. The vendor master
// is read-only.
//
// If any H row's vendor code has no master match, Enrich returns a
// *VendorNotFoundError listing all distinct unmatched codes in
// first-occurrence order. Resolvable rows are enriched before the error is
// returned; the partially enriched table comes back alongside the error so
// the caller can inspect or discard it.
func (e *Enricher) Enrich(procurement, master *table.Table) (*table.Table, error) {
	// Build the code lookups in one pass. Duplicate codes: last write wins.
	// A master row without a vendor name cannot resolve anything and acts
	// like a missing code; an empty-string name is a present value.
	nameByCode := make(map[string]string, master.RowCount())
	bankByCode := make(map[string]string, master.RowCount())
	for _, row := range master.Rows {
		code, ok := row.Get(e.Master.VendorCode)
		if !ok {
			continue
		}
		if name, ok := row.Get(e.Master.VendorName); ok {
			nameByCode[code] = name
		}
		if bank, ok := row.Get(e.Master.BankAccount); ok {
			bankByCode[code] = bank
		}
	}

	procurement.AddColumn(ColumnVendorNameSAP)
	if master.HasColumn(e.Master.BankAccount) {
		procurement.AddColumn(ColumnBankAccountSAP)
	}

	var missing []string
	seen := make(map[string]bool)

	for _, row := range procurement.Rows {
		if recordType, _ := row.Get(e.Procurement.RecordType); recordType != RecordTypeHeader {
			continue
		}

		code, _ := row.Get(e.Procurement.VendorCode)
		name, found := nameByCode[code]
		if !found {
			if !seen[code] {
				seen[code] = true
				missing = append(missing, code)
			}
			continue
		}

		row.Set(ColumnVendorNameSAP, name)
		if bank, ok := bankByCode[code]; ok {
			row.Set(ColumnBankAccountSAP, bank)
		}
	}

	if len(missing) > 0 {
		return procurement, NewVendorNotFoundError(procurement.Name, missing)
	}

	return procurement, nil
}
