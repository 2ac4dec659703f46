package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"dashgen/pkg/contracts/domain"
)

// Load parses a raw byte stream into a generic Table based on the
// file's declared extension. Recognized extensions are .csv, .xls,
// .xlsx and .json; anything else fails with UnsupportedFormatError.
// Malformed content for a recognized format fails with ParseError.
func Load(filename string, r io.Reader) (*domain.Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return loadCSV(filename, r)
	case ".xls", ".xlsx":
		return loadExcel(filename, r)
	case ".json":
		return loadJSON(filename, r)
	default:
		return nil, &UnsupportedFormatError{Filename: filename, Extension: ext}
	}
}

func loadCSV(filename string, r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded with absent cells

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("file is empty")}
	}

	return tableFromRows(records[0], records[1:]), nil
}

func loadExcel(filename string, r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	defer f.Close()

	// Use the first sheet that yields at least a header row.
	var rows [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, rowsErr := f.GetRows(name)
		if rowsErr == nil && len(sheetRows) > 0 {
			rows = sheetRows
			slog.Debug("reading spreadsheet sheet",
				slog.String("file", filename),
				slog.String("sheet", name),
				slog.Int("rows", len(sheetRows)))
			break
		}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("no sheet with data")}
	}

	return tableFromRows(rows[0], rows[1:]), nil
}

func loadJSON(filename string, r io.Reader) (*domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

	var records []map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &records); err != nil {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("expected an array of records: %w", err)}
	}

	// Flatten nested objects into dotted paths, collecting the column
	// set in first-seen order across all records.
	flat := make([]map[string]domain.Value, len(records))
	var order []string
	seen := make(map[string]bool)
	for i, rec := range records {
		flat[i] = make(map[string]domain.Value)
		flattenRecord("", rec, flat[i])
		// Keys of a single record come back in map order; sort them so
		// column order is deterministic within each record.
		keys := make([]string, 0, len(flat[i]))
		for k := range flat[i] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}

	table := &domain.Table{Columns: make([]domain.Column, len(order))}
	for c, name := range order {
		col := domain.Column{Name: name, Values: make([]domain.Value, len(flat))}
		for i := range flat {
			if v, ok := flat[i][name]; ok {
				col.Values[i] = v
			} else {
				col.Values[i] = domain.Absent()
			}
		}
		table.Columns[c] = col
	}
	return table, nil
}

// flattenRecord walks a decoded JSON object, writing scalar leaves into
// out under dotted-path keys. Arrays are rendered as text since a flat
// table cell cannot hold them.
func flattenRecord(prefix string, rec map[string]any, out map[string]domain.Value) {
	for k, raw := range rec {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := raw.(type) {
		case nil:
			out[key] = domain.Absent()
		case bool:
			out[key] = domain.Boolean(v)
		case float64:
			out[key] = domain.Number(v)
		case string:
			out[key] = domain.Text(v)
		case map[string]any:
			flattenRecord(key, v, out)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				out[key] = domain.Absent()
				continue
			}
			out[key] = domain.Text(string(b))
		}
	}
}

// tableFromRows builds a Table from a string header plus data rows,
// typing each cell as a number when it parses as one, absent when
// empty, text otherwise. Rows shorter than the header are padded.
func tableFromRows(header []string, rows [][]string) *domain.Table {
	table := &domain.Table{Columns: make([]domain.Column, len(header))}
	for c, name := range header {
		col := domain.Column{Name: name, Values: make([]domain.Value, len(rows))}
		for i, row := range rows {
			if c >= len(row) {
				col.Values[i] = domain.Absent()
				continue
			}
			col.Values[i] = typeCell(row[c])
		}
		table.Columns[c] = col
	}
	return table
}

func typeCell(raw string) domain.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Absent()
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return domain.Number(f)
	}
	if b, err := strconv.ParseBool(strings.ToLower(s)); err == nil && isBoolWord(s) {
		return domain.Boolean(b)
	}
	return domain.Text(s)
}

// isBoolWord guards ParseBool's permissive forms ("1", "t") from
// swallowing values that should stay numeric or textual.
func isBoolWord(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}
