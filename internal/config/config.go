// =============================================================================
// SAP Vendor Reconciliation - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration: directory
// layout, logging and output settings, and one dataset profile per entity
// (procurement ledger, SAP vendor master, invoice register).
//
// COLUMN ALIASING:
//   Source files rarely agree on column names. Each dataset profile carries
//   a column map from the logical fields the pipeline needs (record_type,
//   vendor_code, vendor_name, bank_account, invoice_number) to the physical
//   column names in that file. Unset entries fall back to the logical names
//   themselves. The derived columns the pipeline adds (vendor_name_sap,
//   bank_account_sap, vendor_name_inv, bank_account_mismatch,
//   vendor_name_updated) are fixed and not configurable.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration, loaded from a YAML file.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for procurement batch files.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where enriched procurement and corrected
	// invoice files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where procurement batches are moved after a
	// successful run. Failed batches stay in place.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir holds long-term copies of generated output files.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls log verbosity.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log output format.
	// Valid values: "auto" (console when stderr is a terminal, JSON
	// otherwise), "console", "json"
	// Default: "auto"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the file format for generated outputs.
	// Valid values: "csv", "xlsx"
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// FileNamePattern names generated output files.
	// Placeholders:
	//   {name}      - logical output name (procurement_enriched, invoices_corrected)
	//   {original}  - procurement batch file name without extension
	//   {timestamp} - run timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - run date (YYYYMMDD)
	//   {time}      - run time (HHMMSS)
	//   {uuid}      - run UUID
	// The format extension is appended automatically.
	// Default: "{name}_{timestamp}_{uuid}"
	FileNamePattern string `yaml:"file_name_pattern"`

	// ReportRowLimit caps the number of rows printed per console report
	// table. 0 applies the default.
	// Default: 20
	ReportRowLimit int `yaml:"report_row_limit"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of procurement batches
	// reconciled concurrently. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// =========================================================================
	// DATASET PROFILES
	// =========================================================================

	// Procurement describes the procurement ledger batches. Batches are
	// discovered in InputDir via Pattern unless File pins a single path.
	Procurement DatasetConfig `yaml:"procurement"`

	// VendorMaster describes the SAP vendor master reference file.
	VendorMaster DatasetConfig `yaml:"vendor_master"`

	// Invoices describes the invoice register reference file.
	Invoices DatasetConfig `yaml:"invoices"`
}

// =============================================================================
// DATASET PROFILE STRUCTURE
// =============================================================================

// DatasetConfig describes one source dataset: where it lives, how to parse
// it, and which physical columns carry the logical fields.
type DatasetConfig struct {
	// File is the path to the dataset file. For the procurement profile an
	// empty File means batches are discovered with Pattern instead.
	File string `yaml:"file"`

	// Pattern is a glob matched against file names in InputDir. Only used
	// for the procurement profile.
	// Default: "procurement_*.csv"
	Pattern string `yaml:"pattern,omitempty"`

	// Sheet is the worksheet to read from XLSX files. Empty selects the
	// first sheet.
	Sheet string `yaml:"sheet,omitempty"`

	// CSV contains parser settings for CSV files.
	CSV CSVSettings `yaml:"csv"`

	// Columns maps logical field names to this file's column headers.
	Columns ColumnMap `yaml:"columns"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Common values: "," (comma), ";"
	// (semicolon), "|" (pipe), "\t" (tab).
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multi-row headers are merged
	// into single column names.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row number where data begins.
	// Default: 2 (one header row)
	DataStartRow int `yaml:"data_start_row"`

	// Encoding is the character encoding of the file.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// ColumnMap maps the pipeline's logical fields to physical column names.
// Each dataset uses the subset that applies to it: procurement reads
// record_type, vendor_code, bank_account and invoice_number; the vendor
// master reads vendor_code, vendor_name and bank_account; the invoice
// register reads invoice_number and vendor_name.
type ColumnMap struct {
	// RecordType is the column that discriminates header ("H") rows from
	// item rows.
	// Default: "record_type"
	RecordType string `yaml:"record_type"`

	// VendorCode is the vendor key column.
	// Default: "vendor_code"
	VendorCode string `yaml:"vendor_code"`

	// VendorName is the vendor name column.
	// Default: "vendor_name"
	VendorName string `yaml:"vendor_name"`

	// BankAccount is the bank account column.
	// Default: "bank_account"
	BankAccount string `yaml:"bank_account"`

	// InvoiceNumber is the invoice key column.
	// Default: "invoice_number"
	InvoiceNumber string `yaml:"invoice_number"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads, defaults, and validates the configuration file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration that applies when no config file is
// given: all defaults, input files expected under ./input.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// applyDefaults sets default values for unset options.
func applyDefaults(config *Config) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "auto"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "csv"
	}
	if config.FileNamePattern == "" {
		config.FileNamePattern = "{name}_{timestamp}_{uuid}"
	}
	if config.ReportRowLimit == 0 {
		config.ReportRowLimit = 20
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}

	if config.Procurement.Pattern == "" && config.Procurement.File == "" {
		config.Procurement.Pattern = "procurement_*.csv"
	}
	if config.VendorMaster.File == "" {
		config.VendorMaster.File = "input/vendor_master.csv"
	}
	if config.Invoices.File == "" {
		config.Invoices.File = "input/invoices.csv"
	}

	applyDatasetDefaults(&config.Procurement)
	applyDatasetDefaults(&config.VendorMaster)
	applyDatasetDefaults(&config.Invoices)
}

// applyDatasetDefaults sets parser and column defaults for one dataset.
func applyDatasetDefaults(dataset *DatasetConfig) {
	if dataset.CSV.Delimiter == "" {
		dataset.CSV.Delimiter = ","
	}
	if dataset.CSV.HeaderRows == 0 {
		dataset.CSV.HeaderRows = 1
	}
	if dataset.CSV.DataStartRow == 0 {
		dataset.CSV.DataStartRow = dataset.CSV.HeaderRows + 1
	}
	if dataset.CSV.Encoding == "" {
		dataset.CSV.Encoding = "UTF-8"
	}

	if dataset.Columns.RecordType == "" {
		dataset.Columns.RecordType = "record_type"
	}
	if dataset.Columns.VendorCode == "" {
		dataset.Columns.VendorCode = "vendor_code"
	}
	if dataset.Columns.VendorName == "" {
		dataset.Columns.VendorName = "vendor_name"
	}
	if dataset.Columns.BankAccount == "" {
		dataset.Columns.BankAccount = "bank_account"
	}
	if dataset.Columns.InvoiceNumber == "" {
		dataset.Columns.InvoiceNumber = "invoice_number"
	}
}

// validate checks the configuration and creates missing directories.
func validate(config *Config) error {
	switch config.OutputFormat {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("unsupported output_format %q (expected csv or xlsx)", config.OutputFormat)
	}

	switch config.LogFormat {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (expected auto, console, or json)", config.LogFormat)
	}

	if config.Procurement.File == "" && config.Procurement.Pattern == "" {
		return fmt.Errorf("procurement dataset needs either file or pattern")
	}
	if config.VendorMaster.File == "" {
		return fmt.Errorf("vendor_master.file is required")
	}
	if config.Invoices.File == "" {
		return fmt.Errorf("invoices.file is required")
	}

	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.InputArchiveDir,
		config.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
