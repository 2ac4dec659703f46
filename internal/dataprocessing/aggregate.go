package dataprocessing

import (
	"sort"
	"time"

	"dashgen/pkg/contracts/domain"
)

// TopN is the truncation applied to product and location summaries.
// The region summary returns the full distribution for its proportion
// view.
const TopN = 10

// SumAmount sums the numeric values of the amount column. Absent and
// non-numeric cells contribute zero and never error.
func SumAmount(t *domain.Table, amountCol string) float64 {
	idx := t.ColumnIndex(amountCol)
	if idx < 0 {
		return 0
	}
	var total float64
	for i := 0; i < t.NumRows(); i++ {
		total += numericOf(t.Cell(i, idx))
	}
	return total
}

// MonthlySeries groups the table by calendar month of the date column
// and sums the amount column per bucket, ordered by time. An empty
// table yields ErrEmptyResult so the caller can degrade to a warning;
// missing columns yield ErrRoleUnresolved.
func MonthlySeries(t *domain.Table, dateCol, amountCol string) ([]domain.MonthlyPoint, error) {
	dateIdx := t.ColumnIndex(dateCol)
	amountIdx := t.ColumnIndex(amountCol)
	if dateIdx < 0 || amountIdx < 0 {
		return nil, ErrRoleUnresolved
	}
	if t.NumRows() == 0 {
		return nil, ErrEmptyResult
	}

	totals := make(map[time.Time]float64)
	for i := 0; i < t.NumRows(); i++ {
		v := t.Cell(i, dateIdx)
		if v.Kind != domain.KindDate {
			continue
		}
		month := time.Date(v.Date.Year(), v.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[month] += numericOf(t.Cell(i, amountIdx))
	}
	if len(totals) == 0 {
		return nil, ErrEmptyResult
	}

	series := make([]domain.MonthlyPoint, 0, len(totals))
	for month, total := range totals {
		series = append(series, domain.MonthlyPoint{Month: month, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month.Before(series[j].Month) })
	return series, nil
}

// CategoryTotals groups by the categorical column's distinct values,
// sums the amount column, and sorts descending by sum. limit > 0
// truncates to the top entries; limit 0 returns the full distribution.
func CategoryTotals(t *domain.Table, groupCol, amountCol string, limit int) ([]domain.GroupTotal, error) {
	groupIdx := t.ColumnIndex(groupCol)
	amountIdx := t.ColumnIndex(amountCol)
	if groupIdx < 0 || amountIdx < 0 {
		return nil, ErrRoleUnresolved
	}
	if t.NumRows() == 0 {
		return nil, ErrEmptyResult
	}

	groups := sumByKey(t, groupIdx, amountIdx)
	sortTotalsDesc(groups)
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

// Aggregate builds a custom user-chosen chart over an arbitrary X/Y
// column pair. Bar and line charts plot raw rows unless grouping is
// requested; the pie shape always groups, since a proportion view over
// raw rows is meaningless.
func Aggregate(t *domain.Table, xCol, yCol string, shape domain.ChartShape, grouped bool) (*domain.CustomChart, error) {
	xIdx := t.ColumnIndex(xCol)
	yIdx := t.ColumnIndex(yCol)
	if xIdx < 0 || yIdx < 0 {
		return nil, ErrRoleUnresolved
	}
	if t.NumRows() == 0 {
		return nil, ErrEmptyResult
	}

	chart := &domain.CustomChart{Shape: shape, XAxis: xCol, YAxis: yCol}
	if grouped || shape == domain.ShapePie {
		groups := sumByKey(t, xIdx, yIdx)
		sortTotalsDesc(groups)
		for _, g := range groups {
			chart.Points = append(chart.Points, domain.ChartPoint{Label: g.Key, Value: g.Total})
		}
		return chart, nil
	}

	for i := 0; i < t.NumRows(); i++ {
		chart.Points = append(chart.Points, domain.ChartPoint{
			Label: t.Cell(i, xIdx).String(),
			Value: numericOf(t.Cell(i, yIdx)),
		})
	}
	return chart, nil
}

// sumByKey sums the amount column per distinct group key, keys in
// first-seen row order.
func sumByKey(t *domain.Table, groupIdx, amountIdx int) []domain.GroupTotal {
	totals := make(map[string]float64)
	var order []string
	for i := 0; i < t.NumRows(); i++ {
		key := t.Cell(i, groupIdx).String()
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += numericOf(t.Cell(i, amountIdx))
	}

	groups := make([]domain.GroupTotal, 0, len(order))
	for _, key := range order {
		groups = append(groups, domain.GroupTotal{Key: key, Total: totals[key]})
	}
	return groups
}

// sortTotalsDesc orders by total descending, key ascending on ties so
// results are deterministic.
func sortTotalsDesc(groups []domain.GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Total != groups[j].Total {
			return groups[i].Total > groups[j].Total
		}
		return groups[i].Key < groups[j].Key
	})
}

func numericOf(v domain.Value) float64 {
	if v.Kind == domain.KindNumber {
		return v.Num
	}
	return 0
}
