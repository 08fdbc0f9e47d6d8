// =============================================================================
// SAP Vendor Reconciliation - Pipeline
// =============================================================================
//
// The pipeline runs the three reconciliation stages in their fixed order:
//
//   1. VendorCodeEnricher   - attach vendor_name_sap / bank_account_sap
//   2. VendorNameReconciler - attach vendor_name_inv, correct the invoices
//   3. BankAccountValidator - flag bank_account_mismatch
//
// Stage 3 only needs stage 1's output; stage 2's vendor_name_inv column is
// ignored by it. The single failure exit is stage 1's vendor lookup. Every
// stage call is wrapped with the timing instrumentation, and each run gets
// a UUID so concurrent batch runs stay distinguishable in the logs.
//
// =============================================================================

package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/timing"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Stats aggregates counts and timings for one pipeline run.
type Stats struct {
	// TotalRows is the number of procurement rows in the batch.
	TotalRows int

	// HeaderRows is the number of H rows, the subset that gets validated.
	HeaderRows int

	// VendorsResolved counts H rows with a resolved vendor_name_sap.
	VendorsResolved int

	// NamesAttached counts H rows whose invoice number matched the
	// invoice register.
	NamesAttached int

	// NameMismatches counts H rows whose invoice vendor name differs from
	// the SAP vendor name.
	NameMismatches int

	// InvoiceRowsCorrected counts rows of the corrected invoice copy whose
	// vendor name was overwritten.
	InvoiceRowsCorrected int

	// BankMismatches counts H rows flagged by the bank validator.
	BankMismatches int

	// Per-stage and total wall time.
	EnrichDuration    time.Duration
	ReconcileDuration time.Duration
	ValidateDuration  time.Duration
	TotalDuration     time.Duration
}

// Result describes the outcome of reconciling one procurement batch.
type Result struct {
	// RunID is the UUID assigned to this run.
	RunID string

	// BatchFile names the procurement batch that was reconciled.
	BatchFile string

	// Procurement is the enriched and flagged procurement table. On
	// failure it may be partially enriched.
	Procurement *table.Table

	// Invoices is the corrected copy of the invoice register. Nil when
	// stage 1 failed.
	Invoices *table.Table

	// Stats holds counts and timings.
	Stats Stats

	// Success indicates whether all stages completed.
	Success bool

	// Error holds the failure when Success is false.
	Error error
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline wires the three stages together for one configuration.
type Pipeline struct {
	// Config supplies the per-dataset column maps.
	Config *config.Config

	// Logger receives stage timing lines and run summaries.
	Logger zerolog.Logger
}

// NewPipeline creates a Pipeline for the given configuration.
func NewPipeline(cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{Config: cfg, Logger: logger}
}

// Run reconciles one procurement batch against the vendor master and the
// invoice register. The procurement table is enriched in place; the invoice
// register is only read. Returns the result and, when stage 1 cannot
// resolve every vendor code, the *VendorNotFoundError.
func (p *Pipeline) Run(procurement, master, invoices *table.Table) (*Result, error) {
	runID := uuid.New().String()
	result := &Result{
		RunID:       runID,
		BatchFile:   procurement.Name,
		Procurement: procurement,
	}

	logger := p.Logger.With().
		Str("run_id", runID).
		Str("batch", procurement.Name).
		Logger()

	runStart := time.Now()
	logger.Info().
		Int("procurement_rows", procurement.RowCount()).
		Int("vendor_master_rows", master.RowCount()).
		Int("invoice_rows", invoices.RowCount()).
		Msg("starting reconciliation")

	// =========================================================================
	// STEP 1: ENRICH VENDOR CODES FROM THE MASTER
	// =========================================================================

	enricher := NewEnricher(p.Config.Procurement.Columns, p.Config.VendorMaster.Columns)

	stageStart := time.Now()
	_, err := timing.Stage(logger, "enrich_vendor_codes", func() (*table.Table, error) {
		return enricher.Enrich(procurement, master)
	})
	result.Stats.EnrichDuration = time.Since(stageStart)

	if err != nil {
		result.Error = err
		result.Stats.TotalDuration = time.Since(runStart)
		return result, err
	}

	// =========================================================================
	// STEP 2: RECONCILE VENDOR NAMES AGAINST THE INVOICE REGISTER
	// =========================================================================

	reconciler := NewNameReconciler(p.Config.Procurement.Columns, p.Config.Invoices.Columns)

	stageStart = time.Now()
	corrected, _ := timing.Stage(logger, "reconcile_vendor_names", func() (*table.Table, error) {
		_, correctedCopy := reconciler.Reconcile(procurement, invoices)
		return correctedCopy, nil
	})
	result.Stats.ReconcileDuration = time.Since(stageStart)
	result.Invoices = corrected

	// =========================================================================
	// STEP 3: VALIDATE BANK ACCOUNTS
	// =========================================================================

	validator := NewBankValidator(p.Config.Procurement.Columns)

	stageStart = time.Now()
	_, _ = timing.Stage(logger, "validate_bank_accounts", func() (*table.Table, error) {
		return validator.Validate(procurement), nil
	})
	result.Stats.ValidateDuration = time.Since(stageStart)

	// =========================================================================
	// COLLECT STATISTICS
	// =========================================================================

	p.collectStats(result, procurement, corrected)
	result.Stats.TotalDuration = time.Since(runStart)
	result.Success = true

	logger.Info().
		Int("header_rows", result.Stats.HeaderRows).
		Int("name_mismatches", result.Stats.NameMismatches).
		Int("invoice_rows_corrected", result.Stats.InvoiceRowsCorrected).
		Int("bank_mismatches", result.Stats.BankMismatches).
		Dur("duration", result.Stats.TotalDuration).
		Msg("reconciliation complete")

	return result, nil
}

// collectStats derives the run counters from the finished tables.
func (p *Pipeline) collectStats(result *Result, procurement, invoices *table.Table) {
	columns := p.Config.Procurement.Columns
	stats := &result.Stats

	stats.TotalRows = procurement.RowCount()
	for _, row := range procurement.Rows {
		if recordType, _ := row.Get(columns.RecordType); recordType != RecordTypeHeader {
			continue
		}
		stats.HeaderRows++

		if row.Has(ColumnVendorNameSAP) {
			stats.VendorsResolved++
		}
		if invoiceName, ok := row.Get(ColumnVendorNameInvoice); ok {
			stats.NamesAttached++
			if sapName, ok := row.Get(ColumnVendorNameSAP); ok && invoiceName != sapName {
				stats.NameMismatches++
			}
		}
		if row.Bool(ColumnBankMismatch) {
			stats.BankMismatches++
		}
	}

	for _, row := range invoices.Rows {
		if row.Bool(ColumnVendorNameUpdated) {
			stats.InvoiceRowsCorrected++
		}
	}
}
