// =============================================================================
// SAP Vendor Reconciliation - Table Model
// =============================================================================
//
// This module defines the in-memory tabular collection the reconciliation
// stages operate on. A Table is an ordered sequence of rows; each row has a
// stable identifier and a set of named string fields.
//
// REPRESENTATION:
//   - Row order is insertion order and is never changed by any stage.
//   - A field is "absent" when its key is missing from the row's field map.
//     An empty string is a present value, distinct from absent.
//   - Boolean derived columns (mismatch/updated flags) are stored as the
//     strings "true"/"false" so they survive the CSV/XLSX write path.
//
// =============================================================================

package table

import (
	"fmt"
	"strconv"
)

// =============================================================================
// ROW
// =============================================================================

// Row is a single record in a table.
type Row struct {
	// ID is the stable row identifier. Loaders assign the source row number;
	// it is preserved verbatim through every stage and into copies.
	ID string

	// Fields maps column name to value. A missing key means the value is
	// absent for this row.
	Fields map[string]string
}

// Get returns the value of a column and whether it is present.
func (r *Row) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// Has reports whether the column has a value on this row.
func (r *Row) Has(column string) bool {
	_, ok := r.Fields[column]
	return ok
}

// Set assigns a value to a column on this row.
func (r *Row) Set(column, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[column] = value
}

// SetBool assigns a boolean flag column, stored as "true"/"false".
func (r *Row) SetBool(column string, value bool) {
	r.Set(column, strconv.FormatBool(value))
}

// Bool reads a boolean flag column. Absent or unparsable values read as
// false.
func (r *Row) Bool(column string) bool {
	v, ok := r.Fields[column]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// Clone returns a deep copy of the row with the same ID.
func (r *Row) Clone() *Row {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return &Row{ID: r.ID, Fields: fields}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is an ordered, column-addressable collection of rows.
type Table struct {
	// Name identifies the dataset in logs and error messages.
	// Usually the source file name.
	Name string

	// Columns lists column names in output order. Derived columns are
	// appended as stages add them.
	Columns []string

	// Rows holds the records in their original order.
	Rows []*Row
}

// New creates an empty table with the given column order.
func New(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the declared column order.
// Adding an existing column is a no-op.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Append adds a row with the given ID and fields and returns it.
func (t *Table) Append(id string, fields map[string]string) *Row {
	if fields == nil {
		fields = make(map[string]string)
	}
	row := &Row{ID: id, Fields: fields}
	t.Rows = append(t.Rows, row)
	return row
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// RowIDs returns the row identifiers in table order.
func (t *Table) RowIDs() []string {
	ids := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		ids[i] = row.ID
	}
	return ids
}

// Clone returns a deep copy of the table. Row IDs, row order, and the
// declared column order are preserved.
func (t *Table) Clone() *Table {
	clone := New(t.Name, t.Columns)
	clone.Rows = make([]*Row, len(t.Rows))
	for i, row := range t.Rows {
		clone.Rows[i] = row.Clone()
	}
	return clone
}

// String describes the table for log output.
func (t *Table) String() string {
	return fmt.Sprintf("%s (%d rows, %d columns)", t.Name, len(t.Rows), len(t.Columns))
}
