// =============================================================================
// SAP Vendor Reconciliation - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configured
// datasets without reconciling anything. It is the dry health check to run
// after editing the configuration or receiving new master data.
//
// COMMAND USAGE:
//   reconciler validate
//
// CHECKS PERFORMED:
//   1. Configuration loads and validates
//   2. Vendor master: required columns, empty codes, duplicate codes
//   3. Invoice register: required columns, empty and duplicate numbers
//   4. Each procurement batch: required columns, header rows, empty codes
//   5. Cross-references: every H-row vendor code resolves, invoices match
//
// The command prints a findings table and exits non-zero when any check
// reports an error-severity finding. Warnings and infos never fail the run.
// No output files are written.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/report"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/validation"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/pkg/utils"
)

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configured datasets without reconciling",
	Long: `The validate command loads the vendor master, the invoice register, and
every procurement batch in the input directory, then runs schema and content
checks over them: required columns, empty or duplicate vendor codes, and
cross-references between the datasets.

Findings are printed as a table with severities:
  error   - the reconcile command would fail on this input
  warning - reconciliation would proceed but the data looks suspect
  info    - notable but harmless

The command exits non-zero only when error-severity findings exist. Nothing
is written to the output directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the validate command with the root command.
func init() {
	rootCmd.AddCommand(validateCmd)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// runValidate loads every configured dataset and prints the findings.
func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := buildLogger(cfg)

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to prepare directories: %w", err)
	}

	fmt.Println("=== Dataset Validation ===")

	master, err := loadDataset(cfg.VendorMaster.File, cfg.VendorMaster)
	if err != nil {
		return fmt.Errorf("failed to load vendor master: %w", err)
	}

	invoices, err := loadDataset(cfg.Invoices.File, cfg.Invoices)
	if err != nil {
		return fmt.Errorf("failed to load invoice register: %w", err)
	}

	validator := validation.New(cfg)
	result := validation.NewResult()
	result.Add(validator.CheckVendorMaster(master)...)
	result.Add(validator.CheckInvoices(invoices)...)

	// Procurement batches are optional here; the reference datasets alone
	// are worth checking after a master data refresh.
	batches, err := discoverBatches(cfg, fm)
	if err != nil {
		return fmt.Errorf("failed to discover batches: %w", err)
	}

	fmt.Printf("Checking %d procurement batch(es)\n", len(batches))

	for _, batch := range batches {
		procurement, err := loadDataset(batch, cfg.Procurement)
		if err != nil {
			return fmt.Errorf("failed to load batch %s: %w", filepath.Base(batch), err)
		}

		logger.Debug().
			Str("batch", filepath.Base(batch)).
			Int("rows", procurement.RowCount()).
			Msg("checking procurement batch")

		result.Add(validator.CheckProcurement(procurement)...)
		result.Add(validator.CheckCrossReferences(procurement, master, invoices)...)
	}

	printer := report.NewPrinter(os.Stdout, cfg)
	if err := printer.Findings(result); err != nil {
		return err
	}

	fmt.Printf("\nValidation result: %s\n", result.Summary())

	if !result.IsValid {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
	}

	return nil
}
