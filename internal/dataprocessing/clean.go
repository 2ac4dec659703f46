package dataprocessing

import (
	"strings"

	"dashgen/pkg/contracts/domain"
)

// MissingTextSentinel replaces null entries in text-typed columns.
const MissingTextSentinel = "Unknown"

// Clean removes exact full-row duplicates (first occurrence wins) and
// fills missing entries of text-typed columns with the sentinel token.
// The report reflects only the deduplication step.
func Clean(t *domain.Table) (*domain.Table, domain.CleaningReport) {
	deduped := dropDuplicateRows(t)
	filled := fillMissingText(deduped)

	report := domain.CleaningReport{
		RowsBefore:   t.NumRows(),
		RowsAfter:    deduped.NumRows(),
		Deduplicated: t.NumRows() - deduped.NumRows(),
	}
	return filled, report
}

func dropDuplicateRows(t *domain.Table) *domain.Table {
	n := t.NumRows()
	seen := make(map[string]bool, n)
	keep := make([]int, 0, n)

	for i := 0; i < n; i++ {
		key := rowKey(t, i)
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}
	return selectRows(t, keep)
}

// rowKey serializes a row into a collision-safe comparison key. Kind
// prefixes keep "1" the number distinct from "1" the string.
func rowKey(t *domain.Table, row int) string {
	var b strings.Builder
	for c := range t.Columns {
		v := t.Cell(row, c)
		b.WriteByte(byte('0' + int(v.Kind)))
		b.WriteString(v.String())
		b.WriteByte(0x1f)
	}
	return b.String()
}

// fillMissingText replaces absent cells with the sentinel in every
// column that holds at least one text value and no numeric, boolean or
// date values. Typed columns keep their gaps.
func fillMissingText(t *domain.Table) *domain.Table {
	out := &domain.Table{Columns: make([]domain.Column, len(t.Columns))}
	for i, col := range t.Columns {
		if !isTextColumn(col) {
			out.Columns[i] = col
			continue
		}
		values := make([]domain.Value, len(col.Values))
		for j, v := range col.Values {
			if v.IsAbsent() {
				values[j] = domain.Text(MissingTextSentinel)
			} else {
				values[j] = v
			}
		}
		out.Columns[i] = domain.Column{Name: col.Name, Values: values}
	}
	return out
}

// isTextColumn reports whether a column is text-typed: it contains at
// least one text cell and nothing but text and absent cells.
func isTextColumn(col domain.Column) bool {
	hasText := false
	for _, v := range col.Values {
		switch v.Kind {
		case domain.KindText:
			hasText = true
		case domain.KindAbsent:
		default:
			return false
		}
	}
	return hasText
}

// selectRows builds a new table containing only the given row indices,
// in order.
func selectRows(t *domain.Table, rows []int) *domain.Table {
	out := &domain.Table{Columns: make([]domain.Column, len(t.Columns))}
	for c, col := range t.Columns {
		values := make([]domain.Value, len(rows))
		for i, r := range rows {
			values[i] = t.Cell(r, c)
		}
		out.Columns[c] = domain.Column{Name: col.Name, Values: values}
	}
	return out
}
