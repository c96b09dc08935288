package core

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// emailRegex accepts addresses of the form local@domain.tld where the
// TLD is at least two letters.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CleaningConfig selects which cleaning steps run for one Clean call.
// The zero value disables everything. Configs are supplied per
// invocation and treated as immutable.
type CleaningConfig struct {
	// RemoveDuplicates keeps only the first occurrence of each
	// distinct row.
	RemoveDuplicates bool `json:"removeDuplicates" yaml:"remove_duplicates"`

	// DropEmptyRows removes rows where every cell is missing.
	DropEmptyRows bool `json:"dropEmptyRows" yaml:"drop_empty_rows"`

	// TrimWhitespace strips leading/trailing whitespace from every
	// text cell.
	TrimWhitespace bool `json:"trimWhitespace" yaml:"trim_whitespace"`

	// TitleCaseNames title-cases text columns whose header looks like
	// a name column.
	TitleCaseNames bool `json:"titleCaseNames" yaml:"title_case_names"`

	// ValidateEmails drops rows whose EmailColumn cell is not a valid
	// email address. Ignored when EmailColumn is empty.
	ValidateEmails bool   `json:"validateEmails" yaml:"validate_emails"`
	EmailColumn    string `json:"emailColumn" yaml:"email_column"`

	// NameColumn overrides the predicate that decides which columns
	// are name-like for title casing. Nil uses DefaultNameColumn.
	// The substring heuristic is deliberately simple; a stricter
	// column classifier can be plugged in here without changing the
	// pipeline's control flow.
	NameColumn func(string) bool `json:"-" yaml:"-"`
}

// DefaultNameColumn reports whether a column header contains the
// substring "name", case-insensitively.
func DefaultNameColumn(name string) bool {
	return strings.Contains(strings.ToLower(name), "name")
}

func (c CleaningConfig) nameColumn(name string) bool {
	if c.NameColumn != nil {
		return c.NameColumn(name)
	}
	return DefaultNameColumn(name)
}

// StepNames returns the enabled steps in execution order, for job
// records and logging.
func (c CleaningConfig) StepNames() []string {
	var steps []string
	if c.RemoveDuplicates {
		steps = append(steps, "remove_duplicates")
	}
	if c.DropEmptyRows {
		steps = append(steps, "drop_empty_rows")
	}
	if c.TrimWhitespace {
		steps = append(steps, "trim_whitespace")
	}
	if c.TitleCaseNames {
		steps = append(steps, "title_case_names")
	}
	if c.ValidateEmails && c.EmailColumn != "" {
		steps = append(steps, "validate_emails")
	}
	return steps
}

// Clean applies the enabled cleaning steps to a table and returns the
// result. The input table is never modified. Steps always run in the
// same order; each consumes the output of the previous one:
//
//  1. remove duplicate rows
//  2. drop fully-empty rows
//  3. trim whitespace in text cells
//  4. title-case name-like text columns
//  5. drop rows with invalid emails in the configured column
//
// Step 5 is a no-op when no email column is configured, by contract
// rather than an error: a valid host disables the toggle when no
// column is chosen. Empty and zero-column tables pass through.
func Clean(t Table, cfg CleaningConfig) Table {
	out := t.Clone()

	if cfg.RemoveDuplicates {
		out = removeDuplicateRows(out)
	}
	if cfg.DropEmptyRows {
		out = dropEmptyRows(out)
	}
	if cfg.TrimWhitespace {
		trimWhitespace(&out)
	}
	if cfg.TitleCaseNames {
		titleCaseNameColumns(&out, cfg.nameColumn)
	}
	if cfg.ValidateEmails && cfg.EmailColumn != "" {
		out = filterInvalidEmails(out, cfg.EmailColumn)
	}

	return out
}

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func removeDuplicateRows(t Table) Table {
	rows := t.RowCount()
	keep := make([]bool, rows)
	seen := make(map[string]struct{}, rows)

	for i := 0; i < rows; i++ {
		key := t.rowKey(i)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keep[i] = true
		}
	}
	return t.selectRows(keep)
}

func dropEmptyRows(t Table) Table {
	rows := t.RowCount()
	keep := make([]bool, rows)
	for i := 0; i < rows; i++ {
		keep[i] = !t.isEmptyRow(i)
	}
	return t.selectRows(keep)
}

// trimWhitespace mutates t in place; callers pass an owned copy.
func trimWhitespace(t *Table) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != TextColumn {
			continue
		}
		for j, cell := range col.Cells {
			if cell.Kind == CellText {
				col.Cells[j].Text = strings.TrimSpace(cell.Text)
			}
		}
	}
}

// titleCaseNameColumns mutates t in place; callers pass an owned copy.
func titleCaseNameColumns(t *Table, isNameColumn func(string) bool) {
	caser := cases.Title(language.English)
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != TextColumn || !isNameColumn(col.Name) {
			continue
		}
		for j, cell := range col.Cells {
			if cell.Kind == CellText {
				col.Cells[j].Text = caser.String(cell.Text)
			}
		}
	}
}

// filterInvalidEmails keeps rows whose cell in the named column is a
// valid email. Missing cells never match, so their rows are dropped.
// An unknown column leaves the table untouched; hosts validate the
// column name before calling Clean.
func filterInvalidEmails(t Table, column string) Table {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return t
	}

	rows := t.RowCount()
	keep := make([]bool, rows)
	for i := 0; i < rows; i++ {
		keep[i] = ValidEmail(t.Columns[idx].Cells[i].String())
	}
	return t.selectRows(keep)
}
