// =============================================================================
// SAP Vendor Reconciliation - Errors
// =============================================================================

package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVendorNotFound is the sentinel for vendor codes that cannot be resolved
// against the vendor master. Match with errors.Is.
var ErrVendorNotFound = errors.New("vendor code not found in vendor master")

// VendorNotFoundError reports every H-row vendor code that has no match in
// the vendor master. It is the only hard failure the pipeline produces;
// unmatched invoices and missing bank columns are data states, not errors.
type VendorNotFoundError struct {
	// Dataset names the procurement batch the codes came from.
	Dataset string

	// Codes holds the distinct unmatched vendor codes in first-occurrence
	// order. Never a subset: the enricher scans the whole batch before
	// failing.
	Codes []string
}

// NewVendorNotFoundError creates a VendorNotFoundError for the given batch.
func NewVendorNotFoundError(dataset string, codes []string) *VendorNotFoundError {
	return &VendorNotFoundError{Dataset: dataset, Codes: codes}
}

// Error implements the error interface.
func (e *VendorNotFoundError) Error() string {
	quoted := make([]string, len(e.Codes))
	for i, code := range e.Codes {
		quoted[i] = fmt.Sprintf("%q", code)
	}
	msg := fmt.Sprintf("%d vendor code(s) not found in vendor master: %s",
		len(e.Codes), strings.Join(quoted, ", "))
	if e.Dataset != "" {
		msg = fmt.Sprintf("%s: %s", e.Dataset, msg)
	}
	return msg
}

// Is supports errors.Is(err, ErrVendorNotFound).
func (e *VendorNotFoundError) Is(target error) bool {
	return target == ErrVendorNotFound
}

// IsVendorNotFound reports whether err is a vendor lookup failure.
func IsVendorNotFound(err error) bool {
	return errors.Is(err, ErrVendorNotFound)
}
