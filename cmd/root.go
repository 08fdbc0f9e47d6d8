// =============================================================================
// SAP Vendor Reconciliation - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'reconcile', 'validate')
// are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (reconciler)
//   ├── reconcileCmd (reconciler reconcile)
//   ├── validateCmd (reconciler validate)
//   ├── sampleCmd (reconciler sample)
//   └── versionCmd (reconciler version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --log-level, --verbose, ...)
//   2. Wiring .env files and RECONCILER_* environment variables into Viper
//   3. Building the process logger
//
//   Precedence for every overridable setting: flag > environment > config
//   file > built-in default. Viper resolves the first two layers because
//   the flags are bound to the same keys the environment uses.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// defaultConfigFile is the config path used when --config is not given.
// When this file does not exist the tool runs on built-in defaults instead
// of failing, so 'reconciler sample && reconciler reconcile' works in an
// empty directory.
const defaultConfigFile = "reconciler.yaml"

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug-level logging; quiet caps output at warnings.
// Both are shorthands that win over --log-level.
var (
	verbose bool
	quiet   bool
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	// Use is the one-line usage message.
	Use: "reconciler",

	// Short is a short description shown in the 'help' output.
	Short: "SAP Vendor Reconciliation - Enrich procurement batches against SAP master data",

	// Long is a longer description shown in the 'help <command>' output.
	Long: `SAP Vendor Reconciliation is a CLI tool that enriches procurement batch
files with vendor master data and flags the mismatches that accounting has
to chase: invoices booked under a stale vendor name and bank accounts that
no longer match the SAP register.

Each batch runs through a three-stage pipeline:
  1. Vendor code enrichment  - attach SAP vendor names and bank accounts
  2. Vendor name reconciliation - correct invoice vendor names against SAP
  3. Bank account validation - flag header rows whose bank account differs

Key Features:
  - CSV and XLSX input with configurable column mapping
  - Concurrent batch processing with per-batch isolation
  - Console reports, CSV/XLSX outputs, and run summary logs
  - Automatic file archival on successful reconciliation

Example Usage:
  reconciler reconcile                  # Reconcile all batches in the input directory
  reconciler reconcile --file batch.csv # Reconcile a single batch
  reconciler validate                   # Check the datasets without writing outputs
  reconciler sample                     # Generate small demo datasets to try the tool`,

	// Run is the function executed when the root command is called without
	// any subcommands. We just print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags and registers the environment bootstrap.
func init() {
	cobra.OnInitialize(initEnvironment)

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().String(
		"log-level",
		"",
		"Log level: trace, debug, info, warn, error",
	)

	rootCmd.PersistentFlags().String(
		"log-format",
		"",
		"Log format: auto, console, json",
	)

	rootCmd.PersistentFlags().String(
		"input-dir",
		"",
		"Directory scanned for procurement batches",
	)

	rootCmd.PersistentFlags().String(
		"output-dir",
		"",
		"Directory for enriched outputs and summary logs",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Force debug logging (shorthand for --log-level debug)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&quiet,
		"quiet",
		"q",
		false,
		"Only log warnings and errors",
	)

	// Bind the override flags to the Viper keys the environment uses, so
	// RECONCILER_LOG_LEVEL and --log-level resolve through the same lookup.
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("input_dir", rootCmd.PersistentFlags().Lookup("input-dir"))
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

// initEnvironment loads .env files and exposes RECONCILER_* environment
// variables through Viper. Variables already set in the process environment
// are never overwritten by the files, and .env.local wins over .env.
func initEnvironment() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	viper.SetEnvPrefix("RECONCILER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// =============================================================================
// SHARED COMMAND HELPERS
// =============================================================================

// loadConfig resolves the effective configuration for a command run.
//
// RETURNS:
//   - *config.Config: config file values with flag/env overrides applied
//   - error: if the config file cannot be read, parsed, or validated
//
// A missing file is only an error when the user asked for one explicitly
// (--config flag or RECONCILER_CONFIG); otherwise the absent default path
// falls back to built-in defaults.
func loadConfig() (*config.Config, error) {
	path := cfgFile

	if !rootCmd.PersistentFlags().Changed("config") {
		if v := viper.GetString("config"); v != "" {
			path = v
		} else if !utils.FileExists(path) {
			cfg := config.Default()
			applyOverrides(cfg)
			return cfg, nil
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg)
	return cfg, nil
}

// applyOverrides layers flag and environment values over the file config.
// Only scalar knobs are overridable this way; dataset layout stays in the
// config file.
func applyOverrides(cfg *config.Config) {
	if v := viper.GetString("input_dir"); v != "" {
		cfg.InputDir = v
	}
	if v := viper.GetString("output_dir"); v != "" {
		cfg.OutputDir = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("log_format"); v != "" {
		cfg.LogFormat = v
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if quiet {
		cfg.LogLevel = "warn"
	}
}

// buildLogger constructs the process logger from the resolved configuration.
//
// The "auto" format picks console output when stderr is a terminal and JSON
// otherwise, so piped and scheduled runs stay machine-readable. Logs always
// go to stderr; stdout is reserved for reports.
func buildLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	format := cfg.LogFormat
	if format == "" || format == "auto" {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "console"
		} else {
			format = "json"
		}
	}

	var out io.Writer = os.Stderr
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
