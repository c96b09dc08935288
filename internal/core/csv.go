package core

// csv.go converts between raw upload bytes and Table values.
//
// Parsing handles the messy reality of user-exported CSV files:
//   - Invalid UTF-8 byte sequences (replaced with U+FFFD)
//   - UTF-8 BOM prefixes from Excel exports
//   - Ragged rows (short rows are padded with missing cells)
//   - Lazy quoting
//
// Column types are inferred after parsing: a column whose non-missing
// cells all parse as numbers becomes a number column, everything else
// stays text. Empty cells are missing, matching how the host UI
// presents blank values.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrEmptyFile is returned when the uploaded bytes contain no records.
var ErrEmptyFile = errors.New("empty file")

// ParseCSV parses raw CSV bytes into a Table.
// The first record is the header row; remaining records are data rows.
func ParseCSV(data []byte) (Table, error) {
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyFile
	}

	header := records[0]
	rows := records[1:]

	t := Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		t.Columns[i] = Column{
			Name:  cleanHeader(name),
			Cells: make([]Cell, 0, len(rows)),
		}
	}

	for _, row := range rows {
		for i := range t.Columns {
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			if strings.TrimSpace(raw) == "" {
				t.Columns[i].Cells = append(t.Columns[i].Cells, MissingCell())
			} else {
				t.Columns[i].Cells = append(t.Columns[i].Cells, TextCell(raw))
			}
		}
	}

	inferColumnKinds(&t)
	return t, nil
}

// MarshalCSV serializes a table to UTF-8 CSV bytes: one header row
// followed by one record per row. Column names and cell values are
// preserved exactly.
func MarshalCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, t.ColumnCount())
	for i := 0; i < t.RowCount(); i++ {
		for c := range t.Columns {
			record[c] = t.Columns[c].Cells[i].String()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DownloadFileName returns the timestamped filename for a cleaned CSV
// download, e.g. "cleaned_data_20240115_093042.csv".
func DownloadFileName(now time.Time) string {
	return "cleaned_data_" + now.Format("20060102_150405") + ".csv"
}

// ExportFileName returns the platform download filename for a target,
// derived from its label, e.g. "datascrub_salesforce_compatible.csv".
func ExportFileName(target ExportTarget) string {
	label := strings.ReplaceAll(strings.ToLower(target.Label), " ", "_")
	return "datascrub_" + label + ".csv"
}

// inferColumnKinds promotes columns to NumberColumn when every
// non-missing cell parses as a number. Columns with no values stay text.
func inferColumnKinds(t *Table) {
	for i := range t.Columns {
		col := &t.Columns[i]

		hasValue := false
		numeric := true
		for _, cell := range col.Cells {
			if cell.IsMissing() {
				continue
			}
			hasValue = true
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell.Text), 64); err != nil {
				numeric = false
				break
			}
		}

		if !hasValue || !numeric {
			continue
		}

		col.Kind = NumberColumn
		for j, cell := range col.Cells {
			if cell.IsMissing() {
				continue
			}
			f, _ := strconv.ParseFloat(strings.TrimSpace(cell.Text), 64)
			col.Cells[j] = NumberCell(f)
		}
	}
}

// cleanHeader trims whitespace and strips a UTF-8 BOM from a header cell.
func cleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(s)
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
