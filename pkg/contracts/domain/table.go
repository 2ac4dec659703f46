package domain

import (
	"fmt"
	"time"
)

// ValueKind discriminates the variants a table cell may hold.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindNumber
	KindText
	KindBool
	KindDate
)

// Value is a tagged scalar cell. Exactly one of the payload fields is
// meaningful, selected by Kind. The zero Value is an absent cell.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
	Date time.Time
}

// Absent returns the absent (missing/null) cell value.
func Absent() Value { return Value{Kind: KindAbsent} }

// Number wraps a float64 as a cell value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text wraps a string as a cell value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Boolean wraps a bool as a cell value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// DateValue wraps a calendar date as a cell value.
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// IsAbsent reports whether the cell is missing.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// String renders the cell for display and export.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%v", v.Num)
	case KindText:
		return v.Str
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports exact cell equality, used by row deduplication.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindText:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	case KindDate:
		return v.Date.Equal(o.Date)
	default:
		return true
	}
}

// MarshalJSON renders the underlying scalar, not the tagged wrapper, so
// API payloads look like ordinary row objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return []byte(fmt.Sprintf("%v", v.Num)), nil
	case KindText:
		return []byte(fmt.Sprintf("%q", v.Str)), nil
	case KindBool:
		return []byte(fmt.Sprintf("%v", v.Bool)), nil
	case KindDate:
		return []byte(fmt.Sprintf("%q", v.Date.Format("2006-01-02"))), nil
	default:
		return []byte("null"), nil
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Table is an ordered list of named columns. Tables are treated as
// immutable once built; every pipeline stage returns a new Table.
type Table struct {
	Columns []Column `json:"columns"`
}

// NumRows returns the row count (length of the longest column).
func (t *Table) NumRows() int {
	n := 0
	for _, c := range t.Columns {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}
	return n
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Cell returns the value at (row, column index), absent when the column
// is shorter than the table (ragged sources).
func (t *Table) Cell(row, col int) Value {
	if col < 0 || col >= len(t.Columns) {
		return Absent()
	}
	vals := t.Columns[col].Values
	if row < 0 || row >= len(vals) {
		return Absent()
	}
	return vals[row]
}

// Row materializes a single row in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for c := range t.Columns {
		row[c] = t.Cell(i, c)
	}
	return row
}

// HeadRows returns up to n leading rows, rendered as strings for preview.
func (t *Table) HeadRows(n int) [][]string {
	rows := t.NumRows()
	if n > rows {
		n = rows
	}
	out := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Columns))
		for c := range t.Columns {
			row[c] = t.Cell(i, c).String()
		}
		out = append(out, row)
	}
	return out
}
