package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgen/pkg/contracts/domain"
)

func tableOf(cols ...domain.Column) *domain.Table {
	return &domain.Table{Columns: cols}
}

func textCol(name string, vals ...string) domain.Column {
	c := domain.Column{Name: name}
	for _, v := range vals {
		c.Values = append(c.Values, domain.Text(v))
	}
	return c
}

func numCol(name string, vals ...float64) domain.Column {
	c := domain.Column{Name: name}
	for _, v := range vals {
		c.Values = append(c.Values, domain.Number(v))
	}
	return c
}

func TestCombineOnlySales(t *testing.T) {
	bucket := NewBucket()
	bucket.Add(domain.CategorySales, "a.csv", tableOf(numCol("monto", 1)))
	bucket.Add(domain.CategoryCustomers, "b.csv", tableOf(numCol("edad", 30)))

	fact := bucket.Combine()
	require.NotNil(t, fact)

	assert.Equal(t, []string{"monto"}, fact.ColumnNames())
	assert.Equal(t, 1, fact.NumRows())
	// Other categories stay in the bucket, untouched.
	assert.Len(t, bucket.Tables(domain.CategoryCustomers), 1)
}

func TestCombineNoSales(t *testing.T) {
	bucket := NewBucket()
	bucket.Add(domain.CategoryOther, "misc.csv", tableOf(numCol("x", 1)))

	assert.Nil(t, bucket.Combine())
}

func TestConcatColumnUnion(t *testing.T) {
	first := tableOf(
		textCol("producto", "A", "B"),
		numCol("monto", 10, 20),
	)
	second := tableOf(
		numCol("monto", 5),
		textCol("sucursal", "Centro"),
	)

	fact := Concat([]*domain.Table{first, second})

	// Column order follows first appearance across sources.
	assert.Equal(t, []string{"producto", "monto", "sucursal"}, fact.ColumnNames())
	assert.Equal(t, 3, fact.NumRows())

	// Row order: first file's rows, then second file's.
	assert.Equal(t, domain.Text("A"), fact.Cell(0, 0))
	assert.Equal(t, domain.Number(5), fact.Cell(2, 1))

	// Gaps are absent, not sentinel-filled.
	assert.True(t, fact.Cell(2, 0).IsAbsent(), "producto missing for second file's rows")
	assert.True(t, fact.Cell(0, 2).IsAbsent(), "sucursal missing for first file's rows")
}
