package domain

// Category labels a table may be uploaded under. Only CategorySales
// feeds the dashboard fact table.
type Category string

const (
	CategorySales     Category = "sales"
	CategoryCustomers Category = "customers"
	CategoryProducts  Category = "products"
	CategoryOther     Category = "other"
)

// ValidCategory reports whether the label is one of the four buckets.
func ValidCategory(c Category) bool {
	switch c {
	case CategorySales, CategoryCustomers, CategoryProducts, CategoryOther:
		return true
	}
	return false
}

// CleaningReport records the effect of the deduplication step. The
// sentinel fill step is intentionally not reflected here.
type CleaningReport struct {
	RowsBefore   int `json:"rows_before"`
	RowsAfter    int `json:"rows_after"`
	Deduplicated int `json:"deduplicated"`
}

// FileReport is the per-file processing outcome surfaced to the caller.
// A failed file carries Error and contributes nothing downstream; the
// rest of the batch continues.
type FileReport struct {
	Filename string         `json:"filename"`
	Category Category       `json:"category"`
	Columns  []string       `json:"columns,omitempty"`
	Cleaning CleaningReport `json:"cleaning"`
	Preview  [][]string     `json:"preview,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// BatchReport aggregates the per-file outcomes plus batch-level
// warnings (unresolved roles, rows dropped by date coercion).
type BatchReport struct {
	Files               []FileReport   `json:"files"`
	Roles               RoleAssignment `json:"roles"`
	RowsDroppedBadDates int            `json:"rows_dropped_unparseable_date"`
	Warnings            []string       `json:"warnings,omitempty"`
}
