package dataprocessing

import (
	"dashgen/pkg/contracts/domain"
)

// Bucket groups the cleaned tables of one batch by their user-declared
// category label. Built fresh per batch, never persisted.
type Bucket struct {
	tables map[domain.Category][]*domain.Table
	order  map[domain.Category][]string
}

// NewBucket returns an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{
		tables: make(map[domain.Category][]*domain.Table),
		order:  make(map[domain.Category][]string),
	}
}

// Add appends a table under the given category, preserving upload order.
func (b *Bucket) Add(category domain.Category, filename string, t *domain.Table) {
	b.tables[category] = append(b.tables[category], t)
	b.order[category] = append(b.order[category], filename)
}

// Tables returns the tables filed under a category, in upload order.
func (b *Bucket) Tables(category domain.Category) []*domain.Table {
	return b.tables[category]
}

// Combine concatenates every sales-category table into the single fact
// table: row-wise union with column-set union, columns missing in a
// given source filled with absent cells for that source's rows. Returns
// nil when the batch has no sales tables.
func (b *Bucket) Combine() *domain.Table {
	sources := b.tables[domain.CategorySales]
	if len(sources) == 0 {
		return nil
	}
	return Concat(sources)
}

// Concat unions tables row-wise. Column order follows first appearance
// across sources; row order follows source order, then original row
// order within each source.
func Concat(sources []*domain.Table) *domain.Table {
	var names []string
	index := make(map[string]int)
	totalRows := 0
	for _, src := range sources {
		totalRows += src.NumRows()
		for _, c := range src.Columns {
			if _, ok := index[c.Name]; !ok {
				index[c.Name] = len(names)
				names = append(names, c.Name)
			}
		}
	}

	out := &domain.Table{Columns: make([]domain.Column, len(names))}
	for i, name := range names {
		out.Columns[i] = domain.Column{Name: name, Values: make([]domain.Value, 0, totalRows)}
	}

	for _, src := range sources {
		rows := src.NumRows()
		for i, name := range names {
			srcCol := src.ColumnIndex(name)
			for r := 0; r < rows; r++ {
				if srcCol < 0 {
					out.Columns[i].Values = append(out.Columns[i].Values, domain.Absent())
				} else {
					out.Columns[i].Values = append(out.Columns[i].Values, src.Cell(r, srcCol))
				}
			}
		}
	}
	return out
}
