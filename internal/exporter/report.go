package exporter

import (
	"dashgen/pkg/contracts/domain"
)

// ExportTable writes the full table as CSV, one record per row, with
// the canonical column names as the header.
func (w *CSVWriter) ExportTable(filePath string, table *domain.Table) error {
	headers := table.ColumnNames()

	rows := table.NumRows()
	records := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		record := make([]string, len(table.Columns))
		for c := range table.Columns {
			record[c] = formatValue(table.Cell(i, c))
		}
		records = append(records, record)
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}

// ExportGroupTotals writes a category aggregation as a two column CSV.
func (w *CSVWriter) ExportGroupTotals(filePath, keyHeader string, totals []domain.GroupTotal) error {
	records := make([][]string, 0, len(totals))
	for _, t := range totals {
		records = append(records, []string{t.Key, formatFloat(t.Total)})
	}
	return w.WriteSimpleCSV(filePath, []string{keyHeader, "total"}, records)
}

// ExportMonthlySeries writes the monthly revenue series as CSV with
// months rendered as the first day of each bucket.
func (w *CSVWriter) ExportMonthlySeries(filePath string, series []domain.MonthlyPoint) error {
	records := make([][]string, 0, len(series))
	for _, p := range series {
		records = append(records, []string{p.Month.Format("2006-01"), formatFloat(p.Total)})
	}
	return w.WriteSimpleCSV(filePath, []string{"month", "total"}, records)
}
