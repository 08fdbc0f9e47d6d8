package reconcile

import (
	"strconv"

	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/config"
	"github.com/ginjaninja78/SAP-vendor-reconciliation/internal/table"
)

// testColumns mirrors the default column map: physical names equal the
// logical ones.
func testColumns() config.ColumnMap {
	return config.ColumnMap{
		RecordType:    "record_type",
		VendorCode:    "vendor_code",
		VendorName:    "vendor_name",
		BankAccount:   "bank_account",
		InvoiceNumber: "invoice_number",
	}
}

// newTestTable builds a table whose row IDs imitate loader-assigned source
// row numbers (data starting at row 2). Omitted map keys stay absent.
func newTestTable(name string, columns []string, rows ...map[string]string) *table.Table {
	tbl := table.New(name, columns)
	for i, fields := range rows {
		tbl.Append(strconv.Itoa(i+2), fields)
	}
	return tbl
}

// procurementColumns is the usual physical layout of a procurement batch.
var procurementColumns = []string{"record_type", "vendor_code", "bank_account", "invoice_number", "amount"}

// masterColumns is the usual physical layout of the vendor master.
var masterColumns = []string{"vendor_code", "vendor_name", "bank_account"}

// invoiceColumns is the usual physical layout of the invoice register.
var invoiceColumns = []string{"invoice_number", "vendor_name", "amount"}
