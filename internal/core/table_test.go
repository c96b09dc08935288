package core

import "testing"

func TestTable_Counts(t *testing.T) {
	tbl := textTable([]string{"Name", "Email"}, [][]string{
		{"Alice", "a@b.com"},
		{"Bob", "b@c.com"},
		{"Carol", ""},
	})

	if got := tbl.RowCount(); got != 3 {
		t.Errorf("RowCount() = %d, want 3", got)
	}
	if got := tbl.ColumnCount(); got != 2 {
		t.Errorf("ColumnCount() = %d, want 2", got)
	}
	if got := tbl.CellCount(); got != 6 {
		t.Errorf("CellCount() = %d, want 6", got)
	}
}

func TestTable_EmptyCounts(t *testing.T) {
	var tbl Table
	if got := tbl.RowCount(); got != 0 {
		t.Errorf("RowCount() = %d, want 0", got)
	}
	if got := tbl.CellCount(); got != 0 {
		t.Errorf("CellCount() = %d, want 0", got)
	}
}

func TestTable_ColumnIndex(t *testing.T) {
	tbl := textTable([]string{"Name", "Email", "email"}, nil)

	tests := []struct {
		name string
		want int
	}{
		{"Name", 0},
		{"Email", 1},
		{"email", 2}, // exact match beats case-insensitive
		{"EMAIL", 1}, // case-insensitive falls back to first
		{"Phone", -1},
	}
	for _, tt := range tests {
		if got := tbl.ColumnIndex(tt.name); got != tt.want {
			t.Errorf("ColumnIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestTable_Row(t *testing.T) {
	tbl := textTable([]string{"A", "B"}, [][]string{
		{"1a", "1b"},
		{"2a", ""},
	})

	row := tbl.Row(1)
	if len(row) != 2 {
		t.Fatalf("Row(1) len = %d, want 2", len(row))
	}
	if row[0].Text != "2a" {
		t.Errorf("Row(1)[0].Text = %q, want %q", row[0].Text, "2a")
	}
	if !row[1].IsMissing() {
		t.Errorf("Row(1)[1] should be missing")
	}
}

func TestTable_CloneIsIndependent(t *testing.T) {
	orig := textTable([]string{"Name"}, [][]string{{"alice"}})
	clone := orig.Clone()

	clone.Columns[0].Cells[0] = TextCell("changed")
	clone.Columns[0].Name = "Renamed"

	if orig.Columns[0].Cells[0].Text != "alice" {
		t.Errorf("mutating clone changed original cell: %q", orig.Columns[0].Cells[0].Text)
	}
	if orig.Columns[0].Name != "Name" {
		t.Errorf("mutating clone changed original header: %q", orig.Columns[0].Name)
	}
}

func TestTable_Equal(t *testing.T) {
	a := textTable([]string{"X"}, [][]string{{"1"}})
	b := textTable([]string{"X"}, [][]string{{"1"}})
	c := textTable([]string{"X"}, [][]string{{"2"}})
	d := textTable([]string{"Y"}, [][]string{{"1"}})

	if !a.Equal(b) {
		t.Error("identical tables should be Equal")
	}
	if a.Equal(c) {
		t.Error("tables with different cells should not be Equal")
	}
	if a.Equal(d) {
		t.Error("tables with different headers should not be Equal")
	}
}

func TestCell_String(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{TextCell("hello"), "hello"},
		{NumberCell(42), "42"},
		{NumberCell(3.5), "3.5"},
		{MissingCell(), ""},
	}
	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.want {
			t.Errorf("Cell.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRowKey_DistinguishesKinds(t *testing.T) {
	// A text "1" and the number 1 render identically but are
	// different rows for duplicate detection.
	tbl := Table{Columns: []Column{{
		Name:  "V",
		Cells: []Cell{TextCell("1"), NumberCell(1), MissingCell()},
	}}}

	keys := map[string]bool{}
	for i := 0; i < 3; i++ {
		keys[tbl.rowKey(i)] = true
	}
	if len(keys) != 3 {
		t.Errorf("rowKey produced %d distinct keys, want 3", len(keys))
	}
}
