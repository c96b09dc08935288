package core

import (
	"strconv"
	"strings"
)

// CellKind identifies what a cell holds.
type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is a single table value: text, a number, or missing.
// The zero value is a missing cell.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell returns a text cell holding s.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a number cell holding f.
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// MissingCell returns an empty cell.
func MissingCell() Cell {
	return Cell{Kind: CellMissing}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// String renders the cell the way it appears in a CSV file.
// Missing cells render as the empty string. Numbers use the shortest
// representation that round-trips.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// ColumnKind is the inferred type of a column.
type ColumnKind int

const (
	TextColumn ColumnKind = iota
	NumberColumn
)

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Cell
}

// Table is an ordered set of equally sized columns. Rows are the
// positional alignment of all columns.
//
// Tables behave like values: every core operation returns a new Table
// and never modifies the caller's input. Use Clone before mutating.
type Table struct {
	Columns []Column
}

// RowCount returns the number of rows.
func (t Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnCount returns the number of columns.
func (t Table) ColumnCount() int {
	return len(t.Columns)
}

// CellCount returns rows x columns.
func (t Table) CellCount() int {
	return t.RowCount() * t.ColumnCount()
}

// ColumnNames returns header names in column order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, preferring an
// exact match and falling back to case-insensitive comparison.
// Returns -1 if no column matches.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col.Name == name {
			return i
		}
	}
	for i, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

// Row returns the cells of row i in column order.
func (t Table) Row(i int) []Cell {
	row := make([]Cell, len(t.Columns))
	for c, col := range t.Columns {
		row[c] = col.Cells[i]
	}
	return row
}

// Clone returns a deep copy that shares no cell storage with t.
func (t Table) Clone() Table {
	out := Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		out.Columns[i] = Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	return out
}

// Equal reports whether two tables have identical shape, headers,
// column kinds, and cell values.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) || t.RowCount() != o.RowCount() {
		return false
	}
	for i, col := range t.Columns {
		oc := o.Columns[i]
		if col.Name != oc.Name || col.Kind != oc.Kind {
			return false
		}
		for j, cell := range col.Cells {
			if cell != oc.Cells[j] {
				return false
			}
		}
	}
	return true
}

// rowKey encodes row i so that two rows collide exactly when every
// cell matches in both kind and value. Used for duplicate detection.
func (t Table) rowKey(i int) string {
	var b strings.Builder
	for c := range t.Columns {
		cell := t.Columns[c].Cells[i]
		if c > 0 {
			b.WriteByte(0x1f)
		}
		switch cell.Kind {
		case CellMissing:
			b.WriteByte('m')
		case CellNumber:
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(cell.Number, 'g', -1, 64))
		default:
			b.WriteByte('t')
			b.WriteString(cell.Text)
		}
	}
	return b.String()
}

// selectRows returns a new table containing only the rows for which
// keep[i] is true, preserving relative order. Cell storage is copied.
func (t Table) selectRows(keep []bool) Table {
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}

	out := Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		cells := make([]Cell, 0, kept)
		for j, cell := range col.Cells {
			if keep[j] {
				cells = append(cells, cell)
			}
		}
		out.Columns[i] = Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	return out
}

// isEmptyRow reports whether every cell in row i is missing.
func (t Table) isEmptyRow(i int) bool {
	for c := range t.Columns {
		if !t.Columns[c].Cells[i].IsMissing() {
			return false
		}
	}
	return true
}
