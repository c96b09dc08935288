package core

// QualityReport summarizes the data health of a table snapshot.
// It is derived read-only data: a fresh report is computed on every
// Score call and never updated afterwards.
type QualityReport struct {
	// Score is the 0-100 health score. 100 means no missing cells
	// and no duplicate rows.
	Score int `json:"score"`

	// DuplicateRows counts rows that exactly duplicate an earlier row.
	// The first occurrence of each distinct row is not counted.
	DuplicateRows int `json:"duplicateRows"`

	// MissingCells counts empty cells across all columns and rows.
	MissingCells int `json:"missingCells"`

	RowCount    int `json:"rowCount"`
	ColumnCount int `json:"columnCount"`

	// MissingPerColumn maps column name to its missing cell count.
	MissingPerColumn map[string]int `json:"missingPerColumn"`
}

// Score weights: missing data hurts the score more than duplicates.
const (
	missingWeight   = 0.7
	duplicateWeight = 0.3
)

// Score computes a quality report for a table. It is a pure function
// of the input and has no error conditions on a well-formed table.
//
// The score is 100 minus weighted penalties for the missing-cell ratio
// and the duplicate-row ratio, truncated to an integer and clamped at
// zero. Both ratios are defined as zero for an empty table.
func Score(t Table) QualityReport {
	report := QualityReport{
		RowCount:         t.RowCount(),
		ColumnCount:      t.ColumnCount(),
		MissingPerColumn: make(map[string]int, t.ColumnCount()),
	}

	for _, col := range t.Columns {
		missing := 0
		for _, cell := range col.Cells {
			if cell.IsMissing() {
				missing++
			}
		}
		report.MissingPerColumn[col.Name] += missing
		report.MissingCells += missing
	}

	seen := make(map[string]struct{}, report.RowCount)
	for i := 0; i < report.RowCount; i++ {
		key := t.rowKey(i)
		if _, dup := seen[key]; dup {
			report.DuplicateRows++
		} else {
			seen[key] = struct{}{}
		}
	}

	var missingPenalty, duplicatePenalty float64
	if total := t.CellCount(); total > 0 {
		missingPenalty = float64(report.MissingCells) / float64(total) * 100
	}
	if report.RowCount > 0 {
		duplicatePenalty = float64(report.DuplicateRows) / float64(report.RowCount) * 100
	}

	score := 100 - missingWeight*missingPenalty - duplicateWeight*duplicatePenalty
	if score < 0 {
		score = 0
	}
	report.Score = int(score)

	return report
}
