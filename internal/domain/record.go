package domain

import "strings"

// Record is one source row: column names in source order plus their raw values.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord pairs header columns with a row's values. Missing trailing values read as empty.
func NewRecord(columns, values []string) Record {
	r := Record{columns: columns, values: make(map[string]string, len(columns))}
	for i, c := range columns {
		if i < len(values) {
			r.values[c] = values[i]
		}
	}
	return r
}

// Columns returns the column names in source order.
func (r Record) Columns() []string { return r.columns }

// Get returns the trimmed value of a column and whether it is present and non-empty.
func (r Record) Get(column string) (string, bool) {
	v := strings.TrimSpace(r.values[column])
	return v, v != ""
}
