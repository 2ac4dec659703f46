package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgen/pkg/contracts/domain"
)

func TestCanonicalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Producto", "producto"},
		{"spaces to underscore", "Fecha de Venta", "fecha_de_venta"},
		{"hyphens to underscore", "Total-Venta", "total_venta"},
		{"surrounding whitespace trimmed", "  Monto Total  ", "monto_total"},
		{"punctuation stripped", "Total ($)", "total_"},
		{"accents stripped", "Región", "regin"},
		{"digits kept", "Q1 2024", "q1_2024"},
		{"already canonical", "monto_total", "monto_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeName(tt.in))
		})
	}
}

func TestCanonicalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Fecha de Venta", "Total-Venta", "  Store #4  ", "REGIÓN", "already_canonical"}

	for _, in := range inputs {
		once := CanonicalizeName(in)
		assert.Equal(t, once, CanonicalizeName(once), "canonicalizing %q twice must match once", in)
	}
}

func TestStandardize(t *testing.T) {
	table := &domain.Table{Columns: []domain.Column{
		{Name: "Fecha de Venta", Values: []domain.Value{domain.Text("2023-01-15")}},
		{Name: "Monto Total", Values: []domain.Value{domain.Number(100)}},
	}}

	got, err := Standardize(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"fecha_de_venta", "monto_total"}, got.ColumnNames())
	// Values pass through untouched.
	assert.Equal(t, domain.Number(100), got.Cell(0, 1))
	// Input table keeps its original names.
	assert.Equal(t, "Fecha de Venta", table.Columns[0].Name)
}

func TestStandardizeIdempotent(t *testing.T) {
	table := &domain.Table{Columns: []domain.Column{
		{Name: "Fecha de Venta"},
		{Name: "Monto-Total"},
	}}

	once, err := Standardize(table)
	require.NoError(t, err)
	twice, err := Standardize(once)
	require.NoError(t, err)

	assert.Equal(t, once.ColumnNames(), twice.ColumnNames())
}

func TestStandardizeCollision(t *testing.T) {
	table := &domain.Table{Columns: []domain.Column{
		{Name: "Total-Venta"},
		{Name: "total_venta"},
	}}

	_, err := Standardize(table)

	var dupErr *DuplicateColumnError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "total_venta", dupErr.Canonical)
	assert.Equal(t, "Total-Venta", dupErr.First)
	assert.Equal(t, "total_venta", dupErr.Second)
}
