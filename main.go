// =============================================================================
// SAP Vendor Reconciliation - Main Entry Point
// =============================================================================
//
// This is the main entry point for the SAP Vendor Reconciliation CLI
// application. It initializes the Cobra CLI framework and delegates command
// execution to the cmd package.
//
// USAGE:
//   reconciler reconcile     - Reconcile all procurement batches in the input directory
//   reconciler validate      - Check the configured datasets without reconciling
//   reconciler sample        - Write small demo datasets for a trial run
//   reconciler version       - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - configs/       : Contains the sample YAML configuration
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/SAP-vendor-reconciliation/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
