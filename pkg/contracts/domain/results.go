package domain

import "time"

// GroupTotal is one entry of a category aggregation: a distinct group
// key and the summed amount for it.
type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// MonthlyPoint is one bucket of the monthly time series.
type MonthlyPoint struct {
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
}

// ChartShape selects how a custom chart reduces its rows.
type ChartShape string

const (
	ShapeBar  ChartShape = "bar"
	ShapeLine ChartShape = "line"
	ShapePie  ChartShape = "pie"
)

// ValidChartShape reports whether the shape is supported.
func ValidChartShape(s ChartShape) bool {
	switch s {
	case ShapeBar, ShapeLine, ShapePie:
		return true
	}
	return false
}

// ChartPoint is one plotted point of a custom chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CustomChart is the result of a user-chosen X/Y aggregation.
type CustomChart struct {
	Shape  ChartShape   `json:"shape"`
	XAxis  string       `json:"x_axis"`
	YAxis  string       `json:"y_axis"`
	Points []ChartPoint `json:"points"`
}

// FilterOptions lists the values the selection collaborator may offer
// for each filter dimension, derived from the post-date-parse fact table.
type FilterOptions struct {
	Years     []int    `json:"years"`
	Products  []string `json:"products,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Regions   []string `json:"regions,omitempty"`
}

// DashboardSummary is the full derived output for one batch under its
// current filter state.
type DashboardSummary struct {
	TotalRevenue  float64        `json:"total_revenue"`
	RowCount      int            `json:"row_count"`
	MonthlySeries []MonthlyPoint `json:"monthly_series,omitempty"`
	TopProducts   []GroupTotal   `json:"top_products,omitempty"`
	TopLocations  []GroupTotal   `json:"top_locations,omitempty"`
	RegionShare   []GroupTotal   `json:"region_share,omitempty"`
	Options       FilterOptions  `json:"options"`
	Warnings      []string       `json:"warnings,omitempty"`
}
