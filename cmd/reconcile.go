// =============================================================================
// SAP Vendor Reconciliation - Reconcile Command
// =============================================================================
//
// This file defines the 'reconcile' command, the main command of the tool.
// It loads the two reference datasets once, discovers procurement batches,
// and runs every batch through the three-stage reconciliation pipeline.
//
// COMMAND USAGE:
//   reconciler reconcile [flags]
//
// FLAGS:
//   --file        : Reconcile a single batch file instead of scanning
//   --dry-run     : Run the pipeline without writing outputs or archiving
//   --no-report   : Skip the per-batch console report tables
//   --sequential  : Reconcile batches one at a time
//
// PROCESSING PIPELINE:
//   1. Load configuration and prepare directories
//   2. Load the vendor master and the invoice register
//   3. Discover procurement batches in the input directory
//   4. For each batch (concurrently, bounded by max_concurrency):
//      a. Parse the batch file
//      b. Enrich vendor codes, reconcile names, validate bank accounts
//      c. Write the enriched batch and the corrected invoice copy
//      d. Archive the batch file
//   5. Print per-batch reports and write the run summary log
//
// On success the batch moves to the input archive. A failed batch stays in
// the input directory, its error lands in the failure report, and the
// command exits non-zero after all batches have finished.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/reconcile"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/report"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// batchFile pins the run to a single batch file instead of scanning the
// input directory.
var batchFile string

// dryRun runs the pipeline and prints reports without writing outputs or
// touching the archive.
var dryRun bool

// noReport suppresses the per-batch console tables. The summary block and
// the ✓/✗ lines still print.
var noReport bool

// sequential disables concurrent batch processing.
var sequential bool

// =============================================================================
// RECONCILE COMMAND DEFINITION
// =============================================================================

// reconcileCmd represents the 'reconcile' command.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile procurement batches against the vendor master and invoice register",
	Long: `The reconcile command scans the input directory for procurement batch files
and runs each one through the reconciliation pipeline: vendor codes are
enriched with SAP names and bank accounts, invoice vendor names are corrected
against SAP, and bank account mismatches are flagged.

Batches are processed concurrently and independently; an unresolvable vendor
code fails only its own batch.

On successful reconciliation:
  - The enriched batch and the corrected invoice copy are written to the
    output directory and copied into the output archive
  - The original batch file is moved to the input archive
  - A summary log for the whole run is written to the output directory

On error:
  - The batch file remains in the input directory
  - The failure is recorded in a failure report next to the outputs
  - Reconciliation continues for the other batches`,

	// RunE is like Run but returns an error, letting Cobra print it and set
	// the exit code.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the reconcile command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(reconcileCmd)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================
	// Local flags are only available to this command.

	reconcileCmd.Flags().StringVar(
		&batchFile,
		"file",
		"",
		"Reconcile a single batch file instead of scanning the input directory",
	)

	reconcileCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the pipeline without writing outputs or archiving inputs",
	)

	reconcileCmd.Flags().BoolVar(
		&noReport,
		"no-report",
		false,
		"Skip the per-batch console report tables",
	)

	reconcileCmd.Flags().BoolVar(
		&sequential,
		"sequential",
		false,
		"Reconcile batches one at a time",
	)
}

// =============================================================================
// MAIN RECONCILIATION FUNCTION
// =============================================================================

// batchOutcome carries one batch's results back to the collector goroutine.
type batchOutcome struct {
	batchPath string
	result    *reconcile.Result
	outputs   batchOutputs
	err       error
}

// batchOutputs holds the paths produced for one successful batch. All fields
// are empty on a dry run.
type batchOutputs struct {
	enriched string
	invoices string
	archived string
}

// runReconcile orchestrates the whole run.
func runReconcile() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := buildLogger(cfg)

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to prepare directories: %w", err)
	}

	fmt.Println("=== SAP Vendor Reconciliation ===")

	// =========================================================================
	// STEP 2: LOAD REFERENCE DATASETS
	// =========================================================================
	// The vendor master and the invoice register load once and are shared
	// read-only by every batch. The pipeline clones the invoice register
	// before correcting it, so concurrent batches never see each other's
	// corrections.

	master, err := loadDataset(cfg.VendorMaster.File, cfg.VendorMaster)
	if err != nil {
		return fmt.Errorf("failed to load vendor master: %w", err)
	}

	invoices, err := loadDataset(cfg.Invoices.File, cfg.Invoices)
	if err != nil {
		return fmt.Errorf("failed to load invoice register: %w", err)
	}

	logger.Info().
		Int("vendor_master_rows", master.RowCount()).
		Int("invoice_rows", invoices.RowCount()).
		Msg("reference datasets loaded")

	// =========================================================================
	// STEP 3: DISCOVER PROCUREMENT BATCHES
	// =========================================================================

	batches, err := discoverBatches(cfg, fm)
	if err != nil {
		return fmt.Errorf("failed to discover batches: %w", err)
	}

	if len(batches) == 0 {
		fmt.Println("No procurement batches found in the input directory.")
		return nil
	}

	fmt.Printf("Found %d batch(es) to reconcile\n", len(batches))

	// =========================================================================
	// STEP 4: RECONCILE BATCHES CONCURRENTLY
	// =========================================================================
	// Each batch runs in its own goroutine. A semaphore bounds the number of
	// batches in flight; a WaitGroup plus a closer goroutine ends the result
	// loop once every batch has reported.

	workers := cfg.MaxConcurrency
	if sequential || workers < 1 {
		workers = 1
	}
	logger.Debug().Int("workers", workers).Msg("starting batch workers")

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	outcomes := make(chan batchOutcome, len(batches))

	for _, batch := range batches {
		wg.Add(1)

		go func(batchPath string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes <- reconcileBatch(batchPath, cfg, master, invoices, fm, logger)
		}(batch)
	}

	// Close the outcomes channel when all goroutines are done.
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// =========================================================================
	// STEP 5: COLLECT RESULTS AND PRINT REPORTS
	// =========================================================================

	printer := report.NewPrinter(os.Stdout, cfg)
	summary := utils.RunSummary{
		StartTime:    startTime,
		TotalBatches: len(batches),
	}
	var failures []utils.FailureEntry

	for outcome := range outcomes {
		base := filepath.Base(outcome.batchPath)

		if outcome.err != nil {
			summary.FailedBatches++
			summary.Failed = append(summary.Failed, utils.FailedBatchInfo{
				BatchFile:    base,
				ErrorType:    fmt.Sprintf("%T", outcome.err),
				ErrorMessage: outcome.err.Error(),
			})
			failures = append(failures, failureEntry(base, outcome.err))
			fmt.Printf("  ✗ %s: %v\n", base, outcome.err)
			continue
		}

		summary.SuccessfulBatches++
		stats := outcome.result.Stats
		summary.TotalRows += stats.TotalRows
		summary.HeaderRows += stats.HeaderRows
		summary.NameMismatches += stats.NameMismatches
		summary.InvoiceRowsCorrected += stats.InvoiceRowsCorrected
		summary.BankMismatches += stats.BankMismatches
		summary.Batches = append(summary.Batches, utils.BatchInfo{
			BatchFile:         base,
			EnrichedOutput:    filepath.Base(outcome.outputs.enriched),
			CorrectedInvoices: filepath.Base(outcome.outputs.invoices),
			ArchivePath:       outcome.outputs.archived,
			Rows:              stats.TotalRows,
			HeaderRows:        stats.HeaderRows,
			NameMismatches:    stats.NameMismatches,
			BankMismatches:    stats.BankMismatches,
			Duration:          stats.TotalDuration,
		})

		if dryRun {
			fmt.Printf("  ✓ %s (dry run, outputs not written)\n", base)
		} else {
			fmt.Printf("  ✓ %s -> %s\n", base, filepath.Base(outcome.outputs.enriched))
		}

		if !noReport {
			printer.Summary(outcome.result)
			printer.VendorNameView(outcome.result)
			printer.BankAccountView(outcome.result)
		}
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 6: PRINT RUN SUMMARY AND WRITE LOGS
	// =========================================================================

	fmt.Println("\n=== Reconciliation Complete ===")
	fmt.Printf("Total batches:   %d\n", summary.TotalBatches)
	fmt.Printf("Successful:      %d\n", summary.SuccessfulBatches)
	fmt.Printf("Failed:          %d\n", summary.FailedBatches)
	fmt.Printf("Rows processed:  %d (%d header)\n", summary.TotalRows, summary.HeaderRows)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))

	if !dryRun {
		if path, err := utils.WriteSummaryLog(summary, cfg.OutputDir); err != nil {
			logger.Warn().Err(err).Msg("failed to write summary log")
		} else {
			logger.Info().Str("path", path).Msg("summary log written")
		}

		if len(failures) > 0 {
			if path, err := utils.WriteFailureReport(failures, cfg.OutputDir); err != nil {
				logger.Warn().Err(err).Msg("failed to write failure report")
			} else {
				fmt.Printf("\nFailures have been logged to %s\n", path)
			}
		}
	}

	if summary.FailedBatches > 0 {
		return fmt.Errorf("%d of %d batch(es) failed", summary.FailedBatches, summary.TotalBatches)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// discoverBatches resolves the list of procurement batch files for this run.
//
// Resolution order: the --file flag, then an explicit procurement file in
// the configuration, then a glob scan of the input directory.
func discoverBatches(cfg *config.Config, fm *utils.FileManager) ([]string, error) {
	if batchFile != "" {
		if !utils.FileExists(batchFile) {
			return nil, fmt.Errorf("batch file %s does not exist", batchFile)
		}
		return []string{batchFile}, nil
	}

	if cfg.Procurement.File != "" {
		return []string{cfg.Procurement.File}, nil
	}

	return fm.DiscoverInputFiles(cfg.Procurement.Pattern)
}

// reconcileBatch runs the pipeline for one batch and writes its outputs.
//
// PARAMETERS:
//   - batchPath: the procurement batch file
//   - cfg: resolved configuration
//   - master, invoices: shared read-only reference tables
//   - fm: file manager for output naming and archival
//   - logger: run logger; batch context is attached here
//
// RETURNS:
//   - batchOutcome: result, output paths, and the error if any stage failed
func reconcileBatch(batchPath string, cfg *config.Config, master, invoices *table.Table, fm *utils.FileManager, logger zerolog.Logger) batchOutcome {
	outcome := batchOutcome{batchPath: batchPath}
	batchLogger := logger.With().Str("batch", filepath.Base(batchPath)).Logger()

	if size, err := utils.GetFileSize(batchPath); err == nil {
		batchLogger.Debug().Int64("bytes", size).Msg("loading procurement batch")
	}

	procurement, err := loadDataset(batchPath, cfg.Procurement)
	if err != nil {
		outcome.err = fmt.Errorf("failed to load batch: %w", err)
		return outcome
	}

	result, err := reconcile.NewPipeline(cfg, batchLogger).Run(procurement, master, invoices)
	outcome.result = result
	if err != nil {
		outcome.err = err
		return outcome
	}

	if dryRun {
		return outcome
	}

	outputs, err := writeOutputs(result, batchPath, cfg, fm)
	outcome.outputs = outputs
	if err != nil {
		outcome.err = err
		return outcome
	}

	archived, err := fm.ArchiveInputFile(batchPath)
	if err != nil {
		outcome.err = fmt.Errorf("failed to archive batch: %w", err)
		return outcome
	}
	outcome.outputs.archived = archived

	return outcome
}

// writeOutputs writes the enriched batch and the corrected invoice copy to
// the output directory and copies both into the output archive. The run ID
// pins the {uuid} placeholder so both files carry the same identifier.
func writeOutputs(result *reconcile.Result, batchPath string, cfg *config.Config, fm *utils.FileManager) (batchOutputs, error) {
	writer := report.NewWriter(cfg)
	original := strings.TrimSuffix(filepath.Base(batchPath), filepath.Ext(batchPath))

	name := func(logical string) string {
		return utils.GenerateOutputFileName(cfg.FileNamePattern, map[string]string{
			"name":     logical,
			"original": original,
			"uuid":     result.RunID,
		}) + writer.Extension()
	}

	var outputs batchOutputs

	outputs.enriched = filepath.Join(cfg.OutputDir, name("procurement_enriched"))
	if err := writer.Write(result.Procurement, outputs.enriched); err != nil {
		return outputs, fmt.Errorf("failed to write enriched batch: %w", err)
	}

	outputs.invoices = filepath.Join(cfg.OutputDir, name("invoices_corrected"))
	if err := writer.Write(result.Invoices, outputs.invoices); err != nil {
		return outputs, fmt.Errorf("failed to write corrected invoices: %w", err)
	}

	for _, path := range []string{outputs.enriched, outputs.invoices} {
		if _, err := fm.ArchiveOutputFile(path); err != nil {
			return outputs, fmt.Errorf("failed to archive output %s: %w", filepath.Base(path), err)
		}
	}

	return outputs, nil
}

// failureEntry builds the failure-report entry for one failed batch. When
// the vendor lookup failed, the unresolved codes ride along so accounting
// can fix the master data without rerunning the batch.
func failureEntry(batchFile string, err error) utils.FailureEntry {
	entry := utils.FailureEntry{
		Timestamp:    time.Now(),
		BatchFile:    batchFile,
		ErrorType:    fmt.Sprintf("%T", err),
		ErrorMessage: err.Error(),
	}

	var notFound *reconcile.VendorNotFoundError
	if errors.As(err, &notFound) {
		entry.VendorCodes = notFound.Codes
	}

	return entry
}
