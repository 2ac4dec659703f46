package dataprocessing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgen/pkg/contracts/domain"
)

func TestMonthlySeriesScenario(t *testing.T) {
	// The canonical walkthrough: a Spanish CSV upload aggregated to
	// monthly revenue buckets.
	csvData := "Fecha de Venta,Monto Total\n2023-01-15,100\n2023-01-20,50\n2023-02-01,30\n"
	raw, err := Load("ventas.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	canonical, err := Standardize(raw)
	require.NoError(t, err)

	roles := Classify(canonical.ColumnNames())
	assert.Equal(t, "fecha_de_venta", roles.Date)
	assert.Equal(t, "monto_total", roles.Amount)

	fact, dropped, err := NormalizeDates(canonical, roles.Date)
	require.NoError(t, err)
	assert.Zero(t, dropped)

	series, err := MonthlySeries(fact, roles.Date, roles.Amount)
	require.NoError(t, err)

	want := []domain.MonthlyPoint{
		{Month: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Total: 150},
		{Month: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), Total: 30},
	}
	assert.Equal(t, want, series)
}

func TestMonthlySeriesTotalMatchesDirectSum(t *testing.T) {
	fact, roles := normalizedFixture(t)

	series, err := MonthlySeries(fact, roles.Date, roles.Amount)
	require.NoError(t, err)

	var bucketed float64
	for _, p := range series {
		bucketed += p.Total
	}
	assert.Equal(t, SumAmount(fact, roles.Amount), bucketed)
}

func TestMonthlySeriesEmptyFilteredSet(t *testing.T) {
	fact, roles := normalizedFixture(t)
	filtered := ApplyFilters(fact, roles, domain.FilterState{Year: 1999})

	_, err := MonthlySeries(filtered, roles.Date, roles.Amount)

	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestMonthlySeriesMissingColumns(t *testing.T) {
	fact, _ := normalizedFixture(t)

	_, err := MonthlySeries(fact, "nonexistent", "monto_total")

	assert.ErrorIs(t, err, ErrRoleUnresolved)
}

func TestCategoryTotalsRegionDistribution(t *testing.T) {
	table := tableOf(
		textCol("region_venta", "North", "North", "South"),
		numCol("monto_total", 10, 20, 5),
	)

	// Region summaries return the full distribution, untruncated.
	got, err := CategoryTotals(table, "region_venta", "monto_total", 0)
	require.NoError(t, err)

	want := []domain.GroupTotal{
		{Key: "North", Total: 30},
		{Key: "South", Total: 5},
	}
	assert.Equal(t, want, got)
}

func TestCategoryTotalsTopN(t *testing.T) {
	products := domain.Column{Name: "producto"}
	amounts := domain.Column{Name: "monto"}
	for i := 0; i < 15; i++ {
		products.Values = append(products.Values, domain.Text(string(rune('a'+i))))
		amounts.Values = append(amounts.Values, domain.Number(float64(i)))
	}
	table := tableOf(products, amounts)

	got, err := CategoryTotals(table, "producto", "monto", TopN)
	require.NoError(t, err)

	require.Len(t, got, TopN)
	assert.Equal(t, "o", got[0].Key, "highest total first")
	assert.Equal(t, float64(14), got[0].Total)
}

func TestCategoryTotalsNullAmountsCountAsZero(t *testing.T) {
	table := &domain.Table{Columns: []domain.Column{
		textCol("region", "North", "North"),
		{Name: "monto", Values: []domain.Value{domain.Number(10), domain.Absent()}},
	}}

	got, err := CategoryTotals(table, "region", "monto", 0)
	require.NoError(t, err)

	assert.Equal(t, []domain.GroupTotal{{Key: "North", Total: 10}}, got)
}

func TestSumAmount(t *testing.T) {
	table := &domain.Table{Columns: []domain.Column{
		{Name: "monto", Values: []domain.Value{
			domain.Number(10), domain.Absent(), domain.Number(2.5), domain.Text("oops"),
		}},
	}}

	assert.Equal(t, 12.5, SumAmount(table, "monto"))
	assert.Zero(t, SumAmount(table, "missing"))
}

func TestAggregateRawShape(t *testing.T) {
	table := tableOf(
		textCol("producto", "A", "B", "A"),
		numCol("monto", 1, 2, 3),
	)

	chart, err := Aggregate(table, "producto", "monto", domain.ShapeBar, false)
	require.NoError(t, err)

	// Raw plot keeps one point per row, duplicates included.
	require.Len(t, chart.Points, 3)
	assert.Equal(t, domain.ChartPoint{Label: "A", Value: 1}, chart.Points[0])
	assert.Equal(t, domain.ChartPoint{Label: "A", Value: 3}, chart.Points[2])
}

func TestAggregateGroupedSum(t *testing.T) {
	table := tableOf(
		textCol("producto", "A", "B", "A"),
		numCol("monto", 1, 2, 3),
	)

	chart, err := Aggregate(table, "producto", "monto", domain.ShapeLine, true)
	require.NoError(t, err)

	assert.Equal(t, []domain.ChartPoint{{Label: "A", Value: 4}, {Label: "B", Value: 2}}, chart.Points)
}

func TestAggregatePieAlwaysGroups(t *testing.T) {
	table := tableOf(
		textCol("producto", "A", "B", "A"),
		numCol("monto", 1, 2, 3),
	)

	// grouped=false is overridden for the proportion shape.
	chart, err := Aggregate(table, "producto", "monto", domain.ShapePie, false)
	require.NoError(t, err)

	assert.Equal(t, []domain.ChartPoint{{Label: "A", Value: 4}, {Label: "B", Value: 2}}, chart.Points)
}

func TestAggregateEmptyTable(t *testing.T) {
	table := tableOf(textCol("producto"), numCol("monto"))

	_, err := Aggregate(table, "producto", "monto", domain.ShapeBar, false)

	assert.ErrorIs(t, err, ErrEmptyResult)
}
