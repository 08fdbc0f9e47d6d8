// =============================================================================
// SAP Vendor Reconciliation - Sample Command
// =============================================================================
//
// This file defines the 'sample' command, which writes three small demo
// datasets to the configured locations so the tool can be tried without any
// real SAP exports:
//
//   - a vendor master with four vendors
//   - an invoice register where one invoice carries a stale vendor name
//   - a procurement batch with a vendor-name mismatch, a bank-account
//     mismatch, a clean row, an invoice with no register entry, and
//     non-header item rows
//
// The files use the column names from the active configuration, so a
// 'reconciler reconcile' run right after picks them up unchanged.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/report"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// forceSample overwrites existing dataset files instead of refusing.
var forceSample bool

// =============================================================================
// SAMPLE COMMAND DEFINITION
// =============================================================================

// sampleCmd represents the 'sample' command.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write small demo datasets for a trial run",
	Long: `The sample command writes a vendor master, an invoice register, and one
procurement batch to the configured locations. The batch exercises every
pipeline behavior: a vendor whose invoice still carries an old company name,
a bank account that drifted from the SAP register, a fully clean vendor, an
invoice number with no register entry, and item rows that must pass through
untouched.

Existing files are never overwritten unless --force is given.

Try it:
  reconciler sample
  reconciler reconcile`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSample()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the sample command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().BoolVar(
		&forceSample,
		"force",
		false,
		"Overwrite existing dataset files",
	)
}

// =============================================================================
// MAIN SAMPLE FUNCTION
// =============================================================================

// runSample writes the three demo datasets.
func runSample() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to prepare directories: %w", err)
	}

	fmt.Println("=== Sample Data Generation ===")

	batchPath := filepath.Join(cfg.InputDir, "procurement_sample.csv")

	datasets := []struct {
		path string
		tbl  *table.Table
	}{
		{cfg.VendorMaster.File, sampleVendorMaster(cfg)},
		{cfg.Invoices.File, sampleInvoices(cfg)},
		{batchPath, sampleProcurement(cfg)},
	}

	for _, dataset := range datasets {
		if utils.FileExists(dataset.path) && !forceSample {
			return fmt.Errorf("%s already exists (use --force to overwrite)", dataset.path)
		}
	}

	for _, dataset := range datasets {
		if dir := filepath.Dir(dataset.path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		if err := report.WriteCSV(dataset.tbl, dataset.path); err != nil {
			return fmt.Errorf("failed to write %s: %w", dataset.path, err)
		}
		fmt.Printf("  ✓ %s (%d rows)\n", dataset.path, dataset.tbl.RowCount())
	}

	fmt.Println("\nRun 'reconciler reconcile' to process the sample batch.")
	return nil
}

// =============================================================================
// SAMPLE DATASETS
// =============================================================================

// sampleVendorMaster builds the demo vendor master. V001's registered name
// and bank account both differ from what the procurement batch carries.
func sampleVendorMaster(cfg *config.Config) *table.Table {
	cols := cfg.VendorMaster.Columns

	tbl := table.New("vendor_master.csv", []string{
		cols.VendorCode, cols.VendorName, cols.BankAccount,
	})
	tbl.Append("2", map[string]string{
		cols.VendorCode: "V001", cols.VendorName: "Acme GmbH", cols.BankAccount: "222",
	})
	tbl.Append("3", map[string]string{
		cols.VendorCode: "V002", cols.VendorName: "Globex AG", cols.BankAccount: "333",
	})
	tbl.Append("4", map[string]string{
		cols.VendorCode: "V003", cols.VendorName: "Initech", cols.BankAccount: "555",
	})
	tbl.Append("5", map[string]string{
		cols.VendorCode: "V004", cols.VendorName: "Umbrella Corp", cols.BankAccount: "777",
	})
	return tbl
}

// sampleInvoices builds the demo invoice register. INV-1001 still names the
// vendor "Acme Corp", the name from before the SAP master was updated.
func sampleInvoices(cfg *config.Config) *table.Table {
	cols := cfg.Invoices.Columns

	tbl := table.New("invoices.csv", []string{
		cols.InvoiceNumber, cols.VendorName,
	})
	tbl.Append("2", map[string]string{
		cols.InvoiceNumber: "INV-1001", cols.VendorName: "Acme Corp",
	})
	tbl.Append("3", map[string]string{
		cols.InvoiceNumber: "INV-1002", cols.VendorName: "Globex AG",
	})
	tbl.Append("4", map[string]string{
		cols.InvoiceNumber: "INV-1003", cols.VendorName: "Initech",
	})
	return tbl
}

// sampleProcurement builds the demo batch:
//
//   - V001: invoice name and bank account both mismatch (111 vs 222)
//   - V002: clean, nothing to flag
//   - V003: bank account mismatch only (444 vs 555)
//   - V004: invoice INV-1004 has no register entry, bank mismatch
//   - two item rows that the pipeline must leave untouched
func sampleProcurement(cfg *config.Config) *table.Table {
	cols := cfg.Procurement.Columns

	tbl := table.New("procurement_sample.csv", []string{
		cols.RecordType, cols.VendorCode, cols.BankAccount, cols.InvoiceNumber,
	})
	tbl.Append("2", map[string]string{
		cols.RecordType: "H", cols.VendorCode: "V001",
		cols.BankAccount: "111", cols.InvoiceNumber: "INV-1001",
	})
	tbl.Append("3", map[string]string{
		cols.RecordType: "I", cols.VendorCode: "V001",
	})
	tbl.Append("4", map[string]string{
		cols.RecordType: "H", cols.VendorCode: "V002",
		cols.BankAccount: "333", cols.InvoiceNumber: "INV-1002",
	})
	tbl.Append("5", map[string]string{
		cols.RecordType: "H", cols.VendorCode: "V003",
		cols.BankAccount: "444", cols.InvoiceNumber: "INV-1003",
	})
	tbl.Append("6", map[string]string{
		cols.RecordType: "I", cols.VendorCode: "V003",
	})
	tbl.Append("7", map[string]string{
		cols.RecordType: "H", cols.VendorCode: "V004",
		cols.BankAccount: "666", cols.InvoiceNumber: "INV-1004",
	})
	return tbl
}
