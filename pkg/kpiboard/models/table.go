package models

import "strings"

// Table is a flat sheet: one header row plus positional data rows.
type Table struct {
	// Headers holds the column names in order.
	Headers []string `json:"headers"`
	// Rows holds data rows aligned to Headers. A row may be shorter than Headers.
	Rows [][]interface{} `json:"rows"`
}

// HeaderIndex maps a trimmed header name to its column position.
// When a name repeats, the last column wins.
type HeaderIndex map[string]int

// Index builds the header lookup for t.
func (t Table) Index() HeaderIndex {
	idx := make(HeaderIndex, len(t.Headers))
	for i, h := range t.Headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// RawRow is one data row bound to its table's header index.
type RawRow struct {
	// Index is the 0-based position of the row among the data rows.
	Index int
	// Cells holds the row's cell values.
	Cells []interface{}
	// Headers is the shared header lookup.
	Headers HeaderIndex
}

// Get returns the cell under header name, or nil when the header is unknown,
// the row is short, or the cell is blank.
func (r RawRow) Get(name string) interface{} {
	i, ok := r.Headers[name]
	if !ok || i >= len(r.Cells) {
		return nil
	}
	v := r.Cells[i]
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}

// RawRows binds every data row of t to its header index.
func (t Table) RawRows() []RawRow {
	idx := t.Index()
	rows := make([]RawRow, len(t.Rows))
	for i, cells := range t.Rows {
		rows[i] = RawRow{Index: i, Cells: cells, Headers: idx}
	}
	return rows
}
