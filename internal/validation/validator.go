// =============================================================================
// SAP Vendor Reconciliation - Dataset Validation
// =============================================================================
//
// This module checks the three datasets before a reconciliation run:
//   - Schema checks: do the mapped columns actually exist in each dataset?
//   - Content checks: empty vendor codes, duplicate master codes, duplicate
//     invoice numbers
//   - Cross-reference checks: header rows whose vendor code has no master
//     row (enrichment would fail) or whose invoice number has no register
//     entry (the name check would skip the row)
//
// ERROR HANDLING:
//   - Findings are collected, not thrown immediately
//   - Each finding includes context (dataset, row, column, offending value)
//   - Severity decides the outcome: only errors fail validation
//
// SEVERITIES:
//   error   - the run cannot succeed (missing columns, unmatched codes)
//   warning - the run proceeds but the data is suspicious
//   info    - notable but harmless (duplicate register entries, last wins)
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/reconcile"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// =============================================================================
// FINDING TYPES
// =============================================================================

// Severity levels for findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Finding represents a single validation finding.
type Finding struct {
	// Severity is one of the Severity* constants.
	// "error" = the run cannot succeed
	// "warning" = the run proceeds, the data is suspicious
	// "info" = notable but harmless
	Severity string

	// Dataset is the name of the dataset the finding belongs to.
	Dataset string

	// Column is the physical column involved, when applicable.
	Column string

	// RowID is the source row, when the finding points at one row.
	RowID string

	// Value is the offending value, when applicable.
	Value string

	// Rule is the check that produced the finding.
	Rule string

	// Message is a human-readable description.
	Message string
}

// String renders the finding for logs and console output.
func (f *Finding) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", strings.ToUpper(f.Severity), f.Dataset))
	if f.RowID != "" {
		b.WriteString(fmt.Sprintf(" row %s", f.RowID))
	}
	if f.Column != "" {
		b.WriteString(fmt.Sprintf(" column '%s'", f.Column))
	}
	b.WriteString(": ")
	b.WriteString(f.Message)
	if f.Value != "" {
		b.WriteString(fmt.Sprintf(" (value: '%s')", f.Value))
	}

	return b.String()
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result aggregates the findings of one validation pass.
type Result struct {
	// IsValid is true if there are no error-severity findings.
	IsValid bool

	// Findings contains all findings, including warnings and infos.
	Findings []*Finding

	// ErrorCount is the number of error-severity findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// InfoCount is the number of informational findings.
	InfoCount int
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{
		IsValid:  true,
		Findings: make([]*Finding, 0),
	}
}

// Add records findings and updates the counters.
func (r *Result) Add(findings ...*Finding) {
	for _, f := range findings {
		r.Findings = append(r.Findings, f)

		switch f.Severity {
		case SeverityError:
			r.ErrorCount++
			r.IsValid = false
		case SeverityWarning:
			r.WarningCount++
		default:
			r.InfoCount++
		}
	}
}

// Summary returns a one-line count of the findings.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s), %d info",
		r.ErrorCount, r.WarningCount, r.InfoCount)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks datasets against the configured column mappings.
type Validator struct {
	cfg *config.Config
}

// New creates a Validator for the given configuration.
func New(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// CheckAll runs every dataset check and the cross-reference checks.
// This is the main entry point for validation.
func (v *Validator) CheckAll(procurement, master, invoices *table.Table) *Result {
	result := NewResult()

	result.Add(v.CheckVendorMaster(master)...)
	result.Add(v.CheckInvoices(invoices)...)
	result.Add(v.CheckProcurement(procurement)...)
	result.Add(v.CheckCrossReferences(procurement, master, invoices)...)

	return result
}

// =============================================================================
// PER-DATASET CHECKS
// =============================================================================

// CheckProcurement checks one procurement batch.
func (v *Validator) CheckProcurement(tbl *table.Table) []*Finding {
	cols := v.cfg.Procurement.Columns
	findings := requireColumns(tbl, map[string]string{
		"record_type":    cols.RecordType,
		"vendor_code":    cols.VendorCode,
		"invoice_number": cols.InvoiceNumber,
	})

	if !tbl.HasColumn(cols.BankAccount) {
		findings = append(findings, &Finding{
			Severity: SeverityInfo,
			Dataset:  tbl.Name,
			Column:   cols.BankAccount,
			Rule:     "missing_bank_column",
			Message:  "no bank account column, bank checks will report no mismatches",
		})
	}

	if !tbl.HasColumn(cols.RecordType) || !tbl.HasColumn(cols.VendorCode) {
		return findings
	}

	headerRows := 0
	for _, row := range tbl.Rows {
		recordType, _ := row.Get(cols.RecordType)
		if recordType != reconcile.RecordTypeHeader {
			continue
		}
		headerRows++

		code, _ := row.Get(cols.VendorCode)
		if strings.TrimSpace(code) == "" {
			findings = append(findings, &Finding{
				Severity: SeverityWarning,
				Dataset:  tbl.Name,
				Column:   cols.VendorCode,
				RowID:    row.ID,
				Rule:     "empty_vendor_code",
				Message:  "header row has no vendor code and cannot be enriched",
			})
		}
	}

	if headerRows == 0 {
		findings = append(findings, &Finding{
			Severity: SeverityWarning,
			Dataset:  tbl.Name,
			Column:   cols.RecordType,
			Rule:     "no_header_rows",
			Message:  fmt.Sprintf("no rows with record type %q, nothing to reconcile", reconcile.RecordTypeHeader),
		})
	}

	return findings
}

// CheckVendorMaster checks the vendor master extract.
func (v *Validator) CheckVendorMaster(tbl *table.Table) []*Finding {
	cols := v.cfg.VendorMaster.Columns
	findings := requireColumns(tbl, map[string]string{
		"vendor_code": cols.VendorCode,
		"vendor_name": cols.VendorName,
	})

	if !tbl.HasColumn(cols.BankAccount) {
		findings = append(findings, &Finding{
			Severity: SeverityInfo,
			Dataset:  tbl.Name,
			Column:   cols.BankAccount,
			Rule:     "missing_bank_column",
			Message:  "no bank account column, bank checks will report no mismatches",
		})
	}

	if !tbl.HasColumn(cols.VendorCode) {
		return findings
	}

	seen := make(map[string]string) // code -> first row ID
	for _, row := range tbl.Rows {
		value, _ := row.Get(cols.VendorCode)
		code := strings.TrimSpace(value)

		if code == "" {
			findings = append(findings, &Finding{
				Severity: SeverityWarning,
				Dataset:  tbl.Name,
				Column:   cols.VendorCode,
				RowID:    row.ID,
				Rule:     "empty_vendor_code",
				Message:  "master row has no vendor code and will never match",
			})
			continue
		}

		if firstRow, dup := seen[code]; dup {
			findings = append(findings, &Finding{
				Severity: SeverityWarning,
				Dataset:  tbl.Name,
				Column:   cols.VendorCode,
				RowID:    row.ID,
				Value:    code,
				Rule:     "duplicate_vendor_code",
				Message:  fmt.Sprintf("vendor code already defined on row %s, the last row wins", firstRow),
			})
			continue
		}
		seen[code] = row.ID
	}

	return findings
}

// CheckInvoices checks the invoice register.
func (v *Validator) CheckInvoices(tbl *table.Table) []*Finding {
	cols := v.cfg.Invoices.Columns
	findings := requireColumns(tbl, map[string]string{
		"invoice_number": cols.InvoiceNumber,
		"vendor_name":    cols.VendorName,
	})

	if !tbl.HasColumn(cols.InvoiceNumber) {
		return findings
	}

	seen := make(map[string]string) // invoice number -> first row ID
	for _, row := range tbl.Rows {
		value, _ := row.Get(cols.InvoiceNumber)
		number := strings.TrimSpace(value)

		if number == "" {
			findings = append(findings, &Finding{
				Severity: SeverityWarning,
				Dataset:  tbl.Name,
				Column:   cols.InvoiceNumber,
				RowID:    row.ID,
				Rule:     "empty_invoice_number",
				Message:  "register row has no invoice number and will never match",
			})
			continue
		}

		if firstRow, dup := seen[number]; dup {
			findings = append(findings, &Finding{
				Severity: SeverityInfo,
				Dataset:  tbl.Name,
				Column:   cols.InvoiceNumber,
				RowID:    row.ID,
				Value:    number,
				Rule:     "duplicate_invoice_number",
				Message:  fmt.Sprintf("invoice number already defined on row %s, the last row wins", firstRow),
			})
			continue
		}
		seen[number] = row.ID
	}

	return findings
}

// =============================================================================
// CROSS-REFERENCE CHECKS
// =============================================================================

// CheckCrossReferences checks that the procurement header rows resolve
// against the vendor master and the invoice register. Checks that depend on
// a missing column are skipped; the missing column is already reported.
func (v *Validator) CheckCrossReferences(procurement, master, invoices *table.Table) []*Finding {
	var findings []*Finding

	procCols := v.cfg.Procurement.Columns
	if !procurement.HasColumn(procCols.RecordType) {
		return findings
	}

	masterCodes := collectValues(master, v.cfg.VendorMaster.Columns.VendorCode)
	invoiceNumbers := collectValues(invoices, v.cfg.Invoices.Columns.InvoiceNumber)

	reportedCodes := make(map[string]bool)

	for _, row := range procurement.Rows {
		recordType, _ := row.Get(procCols.RecordType)
		if recordType != reconcile.RecordTypeHeader {
			continue
		}

		if masterCodes != nil && procurement.HasColumn(procCols.VendorCode) {
			value, _ := row.Get(procCols.VendorCode)
			code := strings.TrimSpace(value)
			if code != "" && !masterCodes[code] && !reportedCodes[code] {
				reportedCodes[code] = true
				findings = append(findings, &Finding{
					Severity: SeverityError,
					Dataset:  procurement.Name,
					Column:   procCols.VendorCode,
					RowID:    row.ID,
					Value:    code,
					Rule:     "unmatched_vendor_code",
					Message:  "vendor code has no vendor master row, enrichment will fail",
				})
			}
		}

		if invoiceNumbers != nil && procurement.HasColumn(procCols.InvoiceNumber) {
			value, _ := row.Get(procCols.InvoiceNumber)
			number := strings.TrimSpace(value)
			if number != "" && !invoiceNumbers[number] {
				findings = append(findings, &Finding{
					Severity: SeverityWarning,
					Dataset:  procurement.Name,
					Column:   procCols.InvoiceNumber,
					RowID:    row.ID,
					Value:    number,
					Rule:     "unmatched_invoice",
					Message:  "invoice number has no register entry, the name check will skip this row",
				})
			}
		}
	}

	return findings
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// requireColumns reports an error finding for every mapped column the table
// does not have.
func requireColumns(tbl *table.Table, mapped map[string]string) []*Finding {
	var findings []*Finding

	// Deterministic order for stable output.
	for _, logical := range []string{"record_type", "vendor_code", "vendor_name", "bank_account", "invoice_number"} {
		physical, ok := mapped[logical]
		if !ok {
			continue
		}
		if tbl.HasColumn(physical) {
			continue
		}

		findings = append(findings, &Finding{
			Severity: SeverityError,
			Dataset:  tbl.Name,
			Column:   physical,
			Rule:     "missing_column",
			Message:  fmt.Sprintf("required column for %s is missing", logical),
		})
	}

	return findings
}

// collectValues builds a set of the trimmed, non-empty values of one column.
// Returns nil when the table does not have the column.
func collectValues(tbl *table.Table, column string) map[string]bool {
	if !tbl.HasColumn(column) {
		return nil
	}

	values := make(map[string]bool)
	for _, row := range tbl.Rows {
		raw, _ := row.Get(column)
		value := strings.TrimSpace(raw)
		if value != "" {
			values[value] = true
		}
	}

	return values
}

// =============================================================================
// FINDING FORMATTING
// =============================================================================

// FormatFindings formats findings for display or logging.
func FormatFindings(findings []*Finding) string {
	if len(findings) == 0 {
		return "No validation findings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(findings)))

	for i, f := range findings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.String()))
	}

	return builder.String()
}
