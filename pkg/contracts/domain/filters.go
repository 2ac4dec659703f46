package domain

// FilterState holds the user-chosen narrowing criteria. All set
// dimensions are applied conjunctively; empty/nil dimensions are
// skipped. Year 0 means "all years".
type FilterState struct {
	Year      int      `json:"year,omitempty"`
	Products  []string `json:"products,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Regions   []string `json:"regions,omitempty"`
}

// IsEmpty reports whether no filter dimension is set.
func (f FilterState) IsEmpty() bool {
	return f.Year == 0 && len(f.Products) == 0 && len(f.Locations) == 0 && len(f.Regions) == 0
}
