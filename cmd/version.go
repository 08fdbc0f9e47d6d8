// =============================================================================
// SAP Vendor Reconciliation - Version Command
// =============================================================================
//
// This file defines the 'version' command, which reports what build of the
// reconciler is running: version, source commit, build date, and the Go
// toolchain and platform it was compiled for.
//
// Release builds stamp the build variables via ldflags:
//
//   go build -ldflags "\
//     -X 'github.com/ginjaninja78/SAP-vendor-reconciliation/cmd.Version=1.2.0' \
//     -X 'github.com/ginjaninja78/SAP-vendor-reconciliation/cmd.Commit=4f9c2b1' \
//     -X 'github.com/ginjaninja78/SAP-vendor-reconciliation/cmd.BuildDate=2024-06-01'"
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// BUILD INFORMATION
// =============================================================================

// Version is the reconciler version. The default marks a build made straight
// from the working tree without release stamping.
var Version = "1.0.0-dev"

// Commit is the short hash of the commit the binary was built from.
var Commit = "none"

// BuildDate is the date the binary was built.
var BuildDate = "unknown"

// =============================================================================
// VERSION COMMAND DEFINITION
// =============================================================================

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build information",
	Long:  `Display the reconciler version, source commit, build date, and Go runtime.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("SAP Vendor Reconciliation")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
