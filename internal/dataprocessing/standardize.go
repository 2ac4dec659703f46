package dataprocessing

import (
	"strings"

	"dashgen/pkg/contracts/domain"
)

// CanonicalizeName rewrites a single column identifier into canonical
// token form: trim, lowercase, spaces and hyphens to underscores, and
// every remaining non-word character stripped. The transform is
// idempotent: a canonical name maps to itself.
func CanonicalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Standardize returns a copy of the table with every column name
// canonicalized. Two distinct original names collapsing to the same
// canonical name fail with DuplicateColumnError; silent last-write-wins
// would drop a column's data.
func Standardize(t *domain.Table) (*domain.Table, error) {
	out := &domain.Table{Columns: make([]domain.Column, len(t.Columns))}
	firstOriginal := make(map[string]string, len(t.Columns))

	for i, col := range t.Columns {
		canonical := CanonicalizeName(col.Name)
		if prev, ok := firstOriginal[canonical]; ok {
			return nil, &DuplicateColumnError{Canonical: canonical, First: prev, Second: col.Name}
		}
		firstOriginal[canonical] = col.Name
		out.Columns[i] = domain.Column{Name: canonical, Values: col.Values}
	}
	return out, nil
}
