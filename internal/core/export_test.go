package core

import (
	"strings"
	"testing"
)

func TestFormat_RenamesHeaders(t *testing.T) {
	tbl := textTable([]string{"First Name", "Email Address"}, [][]string{
		{"Alice", "a@b.com"},
	})
	target := ExportTarget{
		Key:    "snake",
		Label:  "Snake Case",
		Rename: func(s string) string { return strings.ReplaceAll(strings.ToLower(s), " ", "_") },
	}

	out := Format(tbl, target)

	want := []string{"first_name", "email_address"}
	if !equalStrings(out.ColumnNames(), want) {
		t.Errorf("ColumnNames() = %v, want %v", out.ColumnNames(), want)
	}
	// Cell data is untouched.
	if got := out.Columns[0].Cells[0].Text; got != "Alice" {
		t.Errorf("cell = %q, want %q", got, "Alice")
	}
	// Input headers stay as they were.
	if tbl.Columns[0].Name != "First Name" {
		t.Errorf("input header changed: %q", tbl.Columns[0].Name)
	}
}

func TestFormat_NilRenameIsIdentity(t *testing.T) {
	tbl := textTable([]string{"First Name"}, [][]string{{"Alice"}})

	out := Format(tbl, ExportTarget{Key: "plain", Label: "Plain"})
	if !out.Equal(tbl) {
		t.Error("target without Rename should return an equal copy")
	}

	out.Columns[0].Cells[0] = TextCell("changed")
	if tbl.Columns[0].Cells[0].Text != "Alice" {
		t.Error("Format result shares storage with input")
	}
}

func TestTargetRegistry(t *testing.T) {
	RegisterTarget(ExportTarget{Key: "registry-test", Label: "Registry Test"})

	got, ok := Target("registry-test")
	if !ok {
		t.Fatal("Target(registry-test) not found")
	}
	if got.Label != "Registry Test" {
		t.Errorf("Label = %q, want %q", got.Label, "Registry Test")
	}

	if _, ok := Target("nope"); ok {
		t.Error("Target(nope) should not be found")
	}
}

func TestTargets_SortedByKey(t *testing.T) {
	RegisterTarget(ExportTarget{Key: "zzz-test", Label: "Z"})
	RegisterTarget(ExportTarget{Key: "aaa-test", Label: "A"})

	all := Targets()
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("Targets() not sorted: %q before %q", all[i-1].Key, all[i].Key)
		}
	}
}

func TestClearTargets(t *testing.T) {
	snapshot := Targets()
	t.Cleanup(func() {
		ClearTargets()
		for _, target := range snapshot {
			RegisterTarget(target)
		}
	})

	RegisterTarget(ExportTarget{Key: "clear-test", Label: "Clear Test"})
	ClearTargets()

	if got := len(Targets()); got != 0 {
		t.Errorf("len(Targets()) = %d after clear, want 0", got)
	}
	if _, ok := Target("clear-test"); ok {
		t.Error("cleared target still resolvable")
	}

	// A cleared key can be registered again without panicking.
	RegisterTarget(ExportTarget{Key: "clear-test", Label: "Clear Test"})
	if _, ok := Target("clear-test"); !ok {
		t.Error("re-registration after clear failed")
	}
}

func TestRegisterTarget_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	RegisterTarget(ExportTarget{Key: "dup-test", Label: "First"})
	RegisterTarget(ExportTarget{Key: "dup-test", Label: "Second"})
}
