package exporter

import (
	"fmt"
	"strconv"

	"dashgen/pkg/contracts/domain"
)

// formatFloat formats a float64 for CSV output with exactly 2 decimal places
// so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatValue renders a cell for CSV output. Numbers keep their full
// precision so a re-import round trips.
func formatValue(v domain.Value) string {
	switch v.Kind {
	case domain.KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case domain.KindText:
		return v.Str
	case domain.KindBool:
		return strconv.FormatBool(v.Bool)
	case domain.KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return ""
	}
}
