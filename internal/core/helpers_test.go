package core

// Shared table-building helpers for tests. Empty strings become
// missing cells, matching how ParseCSV treats blank fields.

func textTable(headers []string, rows [][]string) Table {
	t := Table{Columns: make([]Column, len(headers))}
	for i, name := range headers {
		t.Columns[i] = Column{Name: name, Cells: make([]Cell, 0, len(rows))}
	}
	for _, row := range rows {
		for i := range t.Columns {
			if i < len(row) && row[i] != "" {
				t.Columns[i].Cells = append(t.Columns[i].Cells, TextCell(row[i]))
			} else {
				t.Columns[i].Cells = append(t.Columns[i].Cells, MissingCell())
			}
		}
	}
	return t
}

func columnValues(t Table, name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	vals := make([]string, 0, t.RowCount())
	for _, cell := range t.Columns[idx].Cells {
		vals = append(vals, cell.String())
	}
	return vals
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
