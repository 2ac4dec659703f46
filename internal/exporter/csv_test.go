package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgen/internal/config"
	"dashgen/pkg/contracts/domain"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(config.PathsConfig{ReportsDir: dir}), dir
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestWriteSimpleCSV(t *testing.T) {
	w, dir := testWriter(t)

	err := w.WriteSimpleCSV("summary.csv",
		[]string{"product", "total"},
		[][]string{{"Widget", "150.00"}, {"Gadget", "30.00"}})
	require.NoError(t, err)

	data := readFile(t, filepath.Join(dir, "summary.csv"))
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3], "expected UTF-8 BOM")
	assert.Equal(t, "product,total\nWidget,150.00\nGadget,30.00\n", string(data[3:]))
}

func TestAppendToCSV(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteSimpleCSV("rows.csv", []string{"a"}, [][]string{{"1"}}))
	require.NoError(t, w.AppendToCSV("rows.csv", [][]string{{"2"}}))

	data := readFile(t, filepath.Join(dir, "rows.csv"))
	assert.Equal(t, "a\n1\n2\n", string(data[3:]))
}

func TestWriteCSV_CreatesNestedDirectories(t *testing.T) {
	w, dir := testWriter(t)

	err := w.WriteSimpleCSV(filepath.Join("batch-1", "fact.csv"), []string{"x"}, nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "batch-1", "fact.csv"))
	assert.NoError(t, err)
}

func TestExportTable(t *testing.T) {
	w, dir := testWriter(t)

	table := &domain.Table{Columns: []domain.Column{
		{Name: "fecha_de_venta", Values: []domain.Value{
			domain.DateValue(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)),
		}},
		{Name: "monto_total", Values: []domain.Value{domain.Number(100.5)}},
		{Name: "producto", Values: []domain.Value{domain.Text("Widget")}},
		{Name: "notes", Values: []domain.Value{domain.Absent()}},
	}}

	require.NoError(t, w.ExportTable("fact.csv", table))

	data := readFile(t, filepath.Join(dir, "fact.csv"))
	assert.Equal(t,
		"fecha_de_venta,monto_total,producto,notes\n2023-01-15,100.5,Widget,\n",
		string(data[3:]))
}

func TestExportGroupTotals(t *testing.T) {
	w, dir := testWriter(t)

	totals := []domain.GroupTotal{
		{Key: "North", Total: 30},
		{Key: "South", Total: 5},
	}
	require.NoError(t, w.ExportGroupTotals("regions.csv", "region", totals))

	data := readFile(t, filepath.Join(dir, "regions.csv"))
	assert.Equal(t, "region,total\nNorth,30.00\nSouth,5.00\n", string(data[3:]))
}

func TestExportMonthlySeries(t *testing.T) {
	w, dir := testWriter(t)

	series := []domain.MonthlyPoint{
		{Month: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Total: 150},
		{Month: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), Total: 30},
	}
	require.NoError(t, w.ExportMonthlySeries("monthly.csv", series))

	data := readFile(t, filepath.Join(dir, "monthly.csv"))
	assert.Equal(t, "month,total\n2023-01,150.00\n2023-02,30.00\n", string(data[3:]))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value domain.Value
		want  string
	}{
		{"number keeps precision", domain.Number(13.4), "13.4"},
		{"integer number", domain.Number(30), "30"},
		{"text", domain.Text("Widget"), "Widget"},
		{"bool", domain.Boolean(true), "true"},
		{"date", domain.DateValue(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)), "2024-03-02"},
		{"absent", domain.Absent(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}
