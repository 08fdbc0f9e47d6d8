// =============================================================================
// SAP Vendor Reconciliation - File Manager Utility
// =============================================================================
//
// This module provides file management for the reconciler, including:
//   - Procurement batch discovery
//   - Batch archival (moving reconciled batches out of the inbox)
//   - Failure report generation
//   - Directory layout setup
//   - Output file naming
//
// ARCHIVAL STRATEGY:
//   - Procurement batches are moved to input_archive after a successful run
//   - Output files are copied to output_archive; the originals stay put
//   - Failed batches remain in the input directory for the next run
//   - Failure reports and run summaries are written to the output directory
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the reconciler.
type FileManager struct {
	// InputDir is the directory scanned for procurement batches.
	InputDir string

	// OutputDir receives reconciled outputs and reports.
	OutputDir string

	// InputArchiveDir is where reconciled procurement batches end up.
	InputArchiveDir string

	// OutputArchiveDir keeps archived copies of output files.
	OutputArchiveDir string

	// UseTimestampSubdirs files archives under year/month/day subtrees,
	// e.g. input_archive/2024/01/15/procurement_january.csv.
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether batches are archived after a
	// successful run.
	ArchiveOnSuccess bool
}

// NewFileManager wires a FileManager over the four reconciler directories.
// Timestamp subdirectories are off and archival is on until the caller says
// otherwise.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:            inputDir,
		OutputDir:           outputDir,
		InputArchiveDir:     inputArchiveDir,
		OutputArchiveDir:    outputArchiveDir,
		UseTimestampSubdirs: false,
		ArchiveOnSuccess:    true,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates every directory the reconciler reads from or
// writes to.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir, fm.OutputArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// BATCH DISCOVERY
// =============================================================================

// DiscoverInputFiles scans the input directory for files matching the glob
// pattern (e.g., "procurement_*.csv"; empty means "*.csv") and returns them
// in directory order.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.csv"
	}

	matches, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	// Glob can match directories; keep regular files only.
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}

	return files, nil
}

// DiscoverInputFilesRecursive scans the input directory tree for files with
// the given extension (e.g., ".csv"). Matching ignores case; an empty
// extension matches every file.
func (fm *FileManager) DiscoverInputFilesRecursive(extension string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(fm.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if extension == "" || strings.EqualFold(filepath.Ext(path), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	return files, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a reconciled procurement batch to the archive
// directory and returns the archive path. When ArchiveOnSuccess is off the
// batch stays where it is.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.InputArchiveDir, filePath)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := moveFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to move file to archive: %w", err)
	}

	return archivePath, nil
}

// ArchiveOutputFile copies an output file to the archive directory and
// returns the archive path. Output files are copied, not moved, so they
// remain available in the output directory.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.OutputArchiveDir, filePath)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file. With
// UseTimestampSubdirs on, the file lands under a year/month/day subtree.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	name := filepath.Base(filePath)
	if fm.UseTimestampSubdirs {
		day := filepath.FromSlash(time.Now().Format("2006/01/02"))
		return filepath.Join(archiveDir, day, name)
	}
	return filepath.Join(archiveDir, name)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name from a pattern.
// The extension is the caller's business; the output writer appends it.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {name}      - logical output name
//     {original}  - source batch file name (without extension)
//     {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - current date (YYYYMMDD)
//     {time}      - current time (HHMMSS)
//     {uuid}      - a random UUID
//   - params: A map of placeholder values. Entries here override the
//     built-in values, so a run can pin {uuid} to its run ID.
//
// EXAMPLE:
//   format: "{name}_{timestamp}_{uuid}"
//   params: {"name": "procurement_enriched"}
//   output: "procurement_enriched_20240115_143022_a1b2c3d4-..."
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	// Params precede the built-ins; a Replacer tries patterns in argument
	// order, so duplicates resolve in the caller's favor.
	pairs := make([]string, 0, 2*len(params)+8)
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", value)
	}
	pairs = append(pairs,
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	)

	return strings.NewReplacer(pairs...).Replace(format)
}

// =============================================================================
// FAILURE REPORT GENERATION
// =============================================================================

// FailureEntry describes one failed procurement batch.
type FailureEntry struct {
	Timestamp    time.Time
	BatchFile    string
	ErrorType    string
	ErrorMessage string

	// VendorCodes lists the unresolved vendor codes when the failure came
	// from the vendor lookup.
	VendorCodes []string
}

// WriteFailureReport writes failed batch entries to a report file in the
// output directory and returns its path. No file is written when there are
// no entries.
func WriteFailureReport(entries []FailureEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	reportPath := filepath.Join(outputDir,
		fmt.Sprintf("failed_batches_%s.txt", time.Now().Format("20060102_150405")))

	file, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("failed to create failure report: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	rule := strings.Repeat("=", 80)

	fmt.Fprintln(w, "SAP Vendor Reconciliation - Failed Batches")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Total Failures: %d\n%s\n\n", len(entries), rule)

	for i, entry := range entries {
		fmt.Fprintf(w, "Failure #%d\n", i+1)
		fmt.Fprintf(w, "  Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "  Batch:      %s\n", entry.BatchFile)
		fmt.Fprintf(w, "  Error Type: %s\n", entry.ErrorType)
		fmt.Fprintf(w, "  Message:    %s\n", entry.ErrorMessage)
		if len(entry.VendorCodes) > 0 {
			fmt.Fprintf(w, "  Unresolved Vendor Codes: %s\n", strings.Join(entry.VendorCodes, ", "))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\nEnd of Report\n", rule)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush failure report: %w", err)
	}

	return reportPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one reconciliation run
// across all its batches.
type RunSummary struct {
	StartTime            time.Time
	EndTime              time.Time
	TotalBatches         int
	SuccessfulBatches    int
	FailedBatches        int
	TotalRows            int
	HeaderRows           int
	NameMismatches       int
	InvoiceRowsCorrected int
	BankMismatches       int
	Batches              []BatchInfo
	Failed               []FailedBatchInfo
}

// BatchInfo describes one successfully reconciled batch.
type BatchInfo struct {
	BatchFile         string
	EnrichedOutput    string
	CorrectedInvoices string
	ArchivePath       string
	Rows              int
	HeaderRows        int
	NameMismatches    int
	BankMismatches    int
	Duration          time.Duration
}

// FailedBatchInfo describes one failed batch.
type FailedBatchInfo struct {
	BatchFile    string
	ErrorType    string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary to a log file in the output
// directory and returns its path.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir,
		fmt.Sprintf("reconciliation_summary_%s.txt", time.Now().Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	rule := strings.Repeat("=", 80)
	dash := strings.Repeat("-", 80)

	fmt.Fprintf(w, "SAP Vendor Reconciliation - Run Summary\n%s\n\n", rule)
	fmt.Fprintln(w, "Run Information:")
	fmt.Fprintf(w, "  Start Time: %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  End Time:   %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Duration:   %s\n\n", summary.EndTime.Sub(summary.StartTime))
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Total Batches:          %d\n", summary.TotalBatches)
	fmt.Fprintf(w, "  Successful:             %d\n", summary.SuccessfulBatches)
	fmt.Fprintf(w, "  Failed:                 %d\n", summary.FailedBatches)
	fmt.Fprintf(w, "  Total Rows:             %d\n", summary.TotalRows)
	fmt.Fprintf(w, "  Header Rows:            %d\n", summary.HeaderRows)
	fmt.Fprintf(w, "  Name Mismatches:        %d\n", summary.NameMismatches)
	fmt.Fprintf(w, "  Invoice Rows Corrected: %d\n", summary.InvoiceRowsCorrected)
	fmt.Fprintf(w, "  Bank Mismatches:        %d\n\n", summary.BankMismatches)

	if len(summary.Batches) > 0 {
		fmt.Fprintf(w, "Reconciled Batches:\n%s\n", dash)
		for _, b := range summary.Batches {
			fmt.Fprintf(w, "  Batch:              %s\n", b.BatchFile)
			fmt.Fprintf(w, "  Enriched Output:    %s\n", b.EnrichedOutput)
			fmt.Fprintf(w, "  Corrected Invoices: %s\n", b.CorrectedInvoices)
			if b.ArchivePath != "" {
				fmt.Fprintf(w, "  Archived To:        %s\n", b.ArchivePath)
			}
			fmt.Fprintf(w, "  Rows:               %d (%d header)\n", b.Rows, b.HeaderRows)
			fmt.Fprintf(w, "  Name Mismatches:    %d\n", b.NameMismatches)
			fmt.Fprintf(w, "  Bank Mismatches:    %d\n", b.BankMismatches)
			fmt.Fprintf(w, "  Duration:           %s\n\n", b.Duration)
		}
	}

	if len(summary.Failed) > 0 {
		fmt.Fprintf(w, "Failed Batches:\n%s\n", dash)
		for _, fb := range summary.Failed {
			fmt.Fprintf(w, "  Batch: %s\n", fb.BatchFile)
			fmt.Fprintf(w, "  Error: %s\n\n", fb.ErrorMessage)
		}
	}

	fmt.Fprintf(w, "%s\nEnd of Summary\n", rule)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dst, truncating dst if it already exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetFileSize returns the file's size in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GetFileModTime returns the file's last modification time.
func GetFileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// CleanOldArchives removes archive files whose modification time is older
// than maxAge and returns the number of files removed.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(archiveDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}
