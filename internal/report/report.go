// =============================================================================
// SAP Vendor Reconciliation - Console Reports
// =============================================================================
//
// This module renders run results for humans: a summary block per batch and
// two row-level views over the reconciled procurement table, one for vendor
// names and one for bank accounts. Validation findings render through the
// same table machinery.
//
// OUTPUT STYLES:
//   table - bordered tables, used when stdout is a terminal
//   plain - tab-separated lines, used for pipes and log capture
//
// Only header rows appear in the views; item rows carry no vendor data.
// Long tables are cut at the configured row limit with a trailer line.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/reconcile"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/validation"
)

// =============================================================================
// PRINTER
// =============================================================================

// Output styles.
const (
	StyleTable = "table"
	StylePlain = "plain"
)

// placeholder rendered for absent values.
const absentCell = "-"

// Printer renders reports to one destination.
type Printer struct {
	// Out is the destination writer.
	Out io.Writer

	// Style is StyleTable or StylePlain.
	Style string

	// RowLimit caps the number of rows per view. 0 means no limit.
	RowLimit int

	// Columns is the procurement column map used to project the views.
	Columns config.ColumnMap
}

// NewPrinter creates a Printer for the destination, picking the style by
// terminal detection.
func NewPrinter(out io.Writer, cfg *config.Config) *Printer {
	return &Printer{
		Out:      out,
		Style:    DetectStyle(out),
		RowLimit: cfg.ReportRowLimit,
		Columns:  cfg.Procurement.Columns,
	}
}

// DetectStyle returns StyleTable when the writer is a terminal and
// StylePlain otherwise.
func DetectStyle(out io.Writer) string {
	if f, ok := out.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return StyleTable
		}
	}
	return StylePlain
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// Summary prints the per-batch summary block.
func (p *Printer) Summary(result *reconcile.Result) {
	stats := result.Stats

	fmt.Fprintf(p.Out, "\n=== Reconciliation: %s ===\n", result.BatchFile)
	fmt.Fprintf(p.Out, "Run ID:            %s\n", result.RunID)
	fmt.Fprintf(p.Out, "Rows:              %d (%d header)\n", stats.TotalRows, stats.HeaderRows)
	fmt.Fprintf(p.Out, "Vendors resolved:  %d\n", stats.VendorsResolved)
	fmt.Fprintf(p.Out, "Name mismatches:   %d\n", stats.NameMismatches)
	fmt.Fprintf(p.Out, "Invoices fixed:    %d\n", stats.InvoiceRowsCorrected)
	fmt.Fprintf(p.Out, "Bank mismatches:   %d\n", stats.BankMismatches)
	fmt.Fprintf(p.Out, "Duration:          %s (enrich %s, names %s, bank %s)\n",
		stats.TotalDuration, stats.EnrichDuration, stats.ReconcileDuration, stats.ValidateDuration)
}

// =============================================================================
// ROW-LEVEL VIEWS
// =============================================================================

// VendorNameView prints the vendor name comparison for every header row:
// the SAP name next to the invoice register name and whether the invoice
// copy was corrected.
func (p *Printer) VendorNameView(result *reconcile.Result) error {
	headers := []string{"ROW", "INVOICE", "VENDOR CODE", "SAP NAME", "INVOICE NAME", "UPDATED"}

	var rows [][]string
	for _, row := range p.headerRows(result.Procurement) {
		sapName, hasSAP := row.Get(reconcile.ColumnVendorNameSAP)
		invName, hasInv := row.Get(reconcile.ColumnVendorNameInvoice)
		updated := hasSAP && hasInv && invName != sapName

		rows = append(rows, []string{
			row.ID,
			p.cell(row, p.Columns.InvoiceNumber),
			p.cell(row, p.Columns.VendorCode),
			orAbsent(sapName, hasSAP),
			orAbsent(invName, hasInv),
			strconv.FormatBool(updated),
		})
	}

	fmt.Fprintf(p.Out, "\nVendor names (%d header rows):\n", len(rows))
	return p.renderTable(headers, rows)
}

// BankAccountView prints the bank account comparison for every header row.
func (p *Printer) BankAccountView(result *reconcile.Result) error {
	headers := []string{"ROW", "INVOICE", "VENDOR CODE", "BANK (FILE)", "BANK (SAP)", "MISMATCH"}

	var rows [][]string
	for _, row := range p.headerRows(result.Procurement) {
		rows = append(rows, []string{
			row.ID,
			p.cell(row, p.Columns.InvoiceNumber),
			p.cell(row, p.Columns.VendorCode),
			p.cell(row, p.Columns.BankAccount),
			p.cell(row, reconcile.ColumnBankAccountSAP),
			strconv.FormatBool(row.Bool(reconcile.ColumnBankMismatch)),
		})
	}

	fmt.Fprintf(p.Out, "\nBank accounts (%d header rows):\n", len(rows))
	return p.renderTable(headers, rows)
}

// =============================================================================
// VALIDATION FINDINGS
// =============================================================================

// Findings prints the findings of a validation pass and the severity counts.
func (p *Printer) Findings(result *validation.Result) error {
	if len(result.Findings) == 0 {
		fmt.Fprintln(p.Out, "\nNo validation findings.")
		return nil
	}

	headers := []string{"SEVERITY", "DATASET", "LOCATION", "MESSAGE"}

	var rows [][]string
	for _, f := range result.Findings {
		rows = append(rows, []string{
			f.Severity,
			f.Dataset,
			findingLocation(f),
			f.Message,
		})
	}

	fmt.Fprintf(p.Out, "\nValidation findings (%s):\n", result.Summary())
	return p.renderTable(headers, rows)
}

// findingLocation compacts a finding's row and column context.
func findingLocation(f *validation.Finding) string {
	switch {
	case f.RowID != "" && f.Column != "":
		return fmt.Sprintf("row %s, %s", f.RowID, f.Column)
	case f.RowID != "":
		return "row " + f.RowID
	case f.Column != "":
		return f.Column
	default:
		return absentCell
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// renderTable renders one view, honoring the style and the row limit.
func (p *Printer) renderTable(headers []string, rows [][]string) error {
	total := len(rows)
	if p.RowLimit > 0 && total > p.RowLimit {
		rows = rows[:p.RowLimit]
	}

	var err error
	if p.Style == StyleTable {
		err = p.renderBordered(headers, rows)
	} else {
		err = p.renderPlain(headers, rows)
	}
	if err != nil {
		return err
	}

	if hidden := total - len(rows); hidden > 0 {
		fmt.Fprintf(p.Out, "... and %d more row(s)\n", hidden)
	}
	return nil
}

// renderBordered draws the view with tablewriter.
func (p *Printer) renderBordered(headers []string, rows [][]string) error {
	twAlign := make([]tw.Align, len(headers))
	for i := range twAlign {
		twAlign[i] = tw.AlignLeft
	}
	// Flag columns read better flush right.
	twAlign[len(twAlign)-1] = tw.AlignRight

	cfg := tablewriter.Config{}
	cfg.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
	cfg.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}

	tbl := tablewriter.NewTable(p.Out, tablewriter.WithConfig(cfg))

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	tbl.Header(headerCells...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := tbl.Append(cells...); err != nil {
			return err
		}
	}

	return tbl.Render()
}

// renderPlain writes the view as tab-separated lines.
func (p *Printer) renderPlain(headers []string, rows [][]string) error {
	if _, err := fmt.Fprintln(p.Out, joinTabs(headers)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(p.Out, joinTabs(row)); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// headerRows collects the H rows of the reconciled procurement table.
func (p *Printer) headerRows(tbl *table.Table) []*table.Row {
	var rows []*table.Row
	for _, row := range tbl.Rows {
		recordType, _ := row.Get(p.Columns.RecordType)
		if recordType == reconcile.RecordTypeHeader {
			rows = append(rows, row)
		}
	}
	return rows
}

// cell reads one column of a row for display.
func (p *Printer) cell(row *table.Row, column string) string {
	value, ok := row.Get(column)
	return orAbsent(value, ok)
}

func orAbsent(value string, present bool) string {
	if !present {
		return absentCell
	}
	return value
}

func joinTabs(cells []string) string {
	return strings.Join(cells, "\t")
}
