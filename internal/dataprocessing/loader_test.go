package dataprocessing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dashgen/pkg/contracts/domain"
)

func TestLoadCSV(t *testing.T) {
	csvData := "Fecha de Venta,Monto Total\n2023-01-15,100\n2023-01-20,50\n2023-02-01,30\n"

	table, err := Load("ventas.csv", strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []string{"Fecha de Venta", "Monto Total"}, table.ColumnNames())
	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, domain.KindText, table.Cell(0, 0).Kind)
	assert.Equal(t, domain.Number(100), table.Cell(0, 1))
	assert.Equal(t, domain.Number(30), table.Cell(2, 1))
}

func TestLoadCSVRaggedRows(t *testing.T) {
	csvData := "a,b,c\n1,2,3\n4,5\n"

	table, err := Load("ragged.csv", strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, table.NumRows())
	assert.True(t, table.Cell(1, 2).IsAbsent())
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := Load("empty.csv", strings.NewReader(""))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "empty.csv", parseErr.Filename)
}

func TestLoadJSON(t *testing.T) {
	jsonData := `[
		{"Producto":"A","Total Venta":10,"meta":{"canal":"web","origen":{"pais":"CL"}}},
		{"Producto":"B","Total Venta":20}
	]`

	table, err := Load("ventas.json", strings.NewReader(jsonData))
	require.NoError(t, err)

	require.Equal(t, 2, table.NumRows())
	assert.True(t, table.HasColumn("Producto"))
	assert.True(t, table.HasColumn("Total Venta"))
	assert.True(t, table.HasColumn("meta.canal"), "nested objects use dotted paths")
	assert.True(t, table.HasColumn("meta.origen.pais"))

	// Columns missing in a record come back absent.
	canal := table.ColumnIndex("meta.canal")
	assert.Equal(t, domain.Text("web"), table.Cell(0, canal))
	assert.True(t, table.Cell(1, canal).IsAbsent())
}

func TestLoadJSONNotAnArray(t *testing.T) {
	_, err := Load("obj.json", strings.NewReader(`{"Producto":"A"}`))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "obj.json")
}

func TestLoadExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Product", "Sale Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Widget", 99.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Gadget", 12}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	table, err := Load("report.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Sale Amount"}, table.ColumnNames())
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, domain.Number(99.5), table.Cell(0, 1))
}

func TestLoadExcelMalformed(t *testing.T) {
	_, err := Load("garbage.xlsx", strings.NewReader("not a spreadsheet"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("notes.txt", strings.NewReader("hello"))

	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, ".txt", formatErr.Extension)
	assert.Equal(t, "notes.txt", formatErr.Filename)
}

func TestTypeCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Value
	}{
		{"empty is absent", "", domain.Absent()},
		{"whitespace is absent", "   ", domain.Absent()},
		{"integer", "42", domain.Number(42)},
		{"float", "3.14", domain.Number(3.14)},
		{"thousands separator", "1,250.50", domain.Number(1250.50)},
		{"boolean true", "true", domain.Boolean(true)},
		{"boolean false", "False", domain.Boolean(false)},
		{"plain text", "North", domain.Text("North")},
		{"numeric-looking text kept numeric", "007", domain.Number(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typeCell(tt.raw))
		})
	}
}
