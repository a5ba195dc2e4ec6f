// pkg/model/dataset.go
package model

// Dataset is the tabular abstraction handed to the engine by an external
// import component: an ordered sequence of named columns and an ordered
// sequence of rows. Cells are raw string values; empty string represents a
// null/empty cell.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// NewDataset creates an empty dataset with the given column names.
func NewDataset(columns []string) *Dataset {
	return &Dataset{
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// ColumnIndex returns the index of the named column, or -1 when absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// Column returns all cell values of the named column in row order.
// Missing column yields nil.
func (d *Dataset) Column(name string) []string {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// Clone returns a deep copy of the dataset. The engine sanitizes a clone so
// the caller's input remains untouched.
func (d *Dataset) Clone() *Dataset {
	columns := make([]string, len(d.Columns))
	copy(columns, d.Columns)

	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		cloned := make([]string, len(row))
		copy(cloned, row)
		rows[i] = cloned
	}

	return &Dataset{Columns: columns, Rows: rows}
}

// ChangeRecord captures a single cell substitution for downstream preview.
// Records are owned and discarded by the caller after the run.
type ChangeRecord struct {
	RowIndex       int
	ColumnName     string
	OriginalValue  string
	SanitizedValue string
}
