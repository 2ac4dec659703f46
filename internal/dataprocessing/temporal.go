package dataprocessing

import (
	"sort"
	"time"

	"dashgen/pkg/contracts/domain"
)

// YearColumn is the derived attribute added by NormalizeDates. An
// existing column with this name is replaced; the derivation is
// deterministic either way.
const YearColumn = "year"

// dateLayouts are the accepted calendar formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// ParseDate coerces a single cell to a calendar date. Cells already
// date-typed pass through; text cells are tried against each layout.
func ParseDate(v domain.Value) (time.Time, bool) {
	switch v.Kind {
	case domain.KindDate:
		return v.Date, true
	case domain.KindText:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v.Str); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// NormalizeDates parses every value of the date column, drops rows
// whose value fails to parse, and derives the year column. The drop is
// destructive and one-way; the count of dropped rows is returned so it
// can be reported. A date column absent from the table returns the
// input unchanged with ErrRoleUnresolved.
func NormalizeDates(t *domain.Table, dateCol string) (*domain.Table, int, error) {
	col := t.ColumnIndex(dateCol)
	if col < 0 {
		return t, 0, ErrRoleUnresolved
	}

	n := t.NumRows()
	keep := make([]int, 0, n)
	dates := make([]domain.Value, 0, n)
	years := make([]domain.Value, 0, n)
	for i := 0; i < n; i++ {
		d, ok := ParseDate(t.Cell(i, col))
		if !ok {
			continue
		}
		keep = append(keep, i)
		dates = append(dates, domain.DateValue(d))
		years = append(years, domain.Number(float64(d.Year())))
	}

	out := selectRows(t, keep)
	out.Columns[col].Values = dates

	if yi := out.ColumnIndex(YearColumn); yi >= 0 {
		out.Columns[yi].Values = years
	} else {
		out.Columns = append(out.Columns, domain.Column{Name: YearColumn, Values: years})
	}
	return out, n - len(keep), nil
}

// ApplyFilters narrows the fact table by the filter state, applied
// conjunctively. Filter dimensions whose column is absent from the
// schema are skipped silently. The function is pure and idempotent:
// callers re-apply it to the full post-date-parse table on every
// filter change, never to a previously filtered result.
func ApplyFilters(t *domain.Table, roles domain.RoleAssignment, fs domain.FilterState) *domain.Table {
	if fs.IsEmpty() {
		return t
	}

	type memberFilter struct {
		col int
		set map[string]bool
	}
	var members []memberFilter
	addMember := func(col string, allowed []string) {
		idx := t.ColumnIndex(col)
		if col == "" || idx < 0 || len(allowed) == 0 {
			return
		}
		set := make(map[string]bool, len(allowed))
		for _, v := range allowed {
			set[v] = true
		}
		members = append(members, memberFilter{col: idx, set: set})
	}
	addMember(roles.Product, fs.Products)
	addMember(roles.Location, fs.Locations)
	addMember(roles.Region, fs.Regions)

	dateIdx := -1
	if fs.Year != 0 && roles.Date != "" {
		dateIdx = t.ColumnIndex(roles.Date)
	}

	n := t.NumRows()
	keep := make([]int, 0, n)
rows:
	for i := 0; i < n; i++ {
		if dateIdx >= 0 {
			v := t.Cell(i, dateIdx)
			if v.Kind != domain.KindDate || v.Date.Year() != fs.Year {
				continue
			}
		}
		for _, m := range members {
			if !m.set[t.Cell(i, m.col).String()] {
				continue rows
			}
		}
		keep = append(keep, i)
	}
	return selectRows(t, keep)
}

// Options derives the values the selection collaborator can offer for
// each filter dimension from the post-date-parse fact table.
func Options(t *domain.Table, roles domain.RoleAssignment) domain.FilterOptions {
	opts := domain.FilterOptions{
		Products:  distinctStrings(t, roles.Product),
		Locations: distinctStrings(t, roles.Location),
		Regions:   distinctStrings(t, roles.Region),
	}

	if idx := t.ColumnIndex(roles.Date); idx >= 0 {
		seen := make(map[int]bool)
		for i := 0; i < t.NumRows(); i++ {
			if v := t.Cell(i, idx); v.Kind == domain.KindDate {
				seen[v.Date.Year()] = true
			}
		}
		for y := range seen {
			opts.Years = append(opts.Years, y)
		}
		sort.Ints(opts.Years)
	}
	return opts
}

func distinctStrings(t *domain.Table, col string) []string {
	idx := t.ColumnIndex(col)
	if col == "" || idx < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < t.NumRows(); i++ {
		v := t.Cell(i, idx)
		if v.IsAbsent() {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
