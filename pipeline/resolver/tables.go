package resolver

import (
	"strings"

	"github.com/jing2626/legislativeai/model"
)

// tableLayout classifies a raw table's column arrangement.
type tableLayout int

const (
	layoutNone tableLayout = iota
	// Full amendment layout: 修正條文 / 現行條文 / 說明 header.
	layoutAmendment
	// New-bill layout: a 條文 column and 說明 but no 現行條文.
	layoutNewBill
	// Headerless tables inferred by column count.
	layoutAmendmentInferred
	layoutNewBillInferred
)

// columnIndices holds the resolved column positions. currentCol is -1
// for new-bill layouts, which have no current-text column.
type columnIndices struct {
	modifiedCol int
	currentCol  int
	explainCol  int
}

// classifyTable sniffs the header row. The amendment matcher runs
// before the new-bill matcher so a full three-label header cannot be
// mistaken for the weaker two-label one; changing this order changes
// which heuristic wins on ambiguous input. Tables without a recognized
// header fall back to positional inference by column count.
func classifyTable(table [][]string) (tableLayout, []string, int) {
	for i, row := range table {
		rowText := strings.Join(row, "")
		switch {
		case strings.Contains(rowText, "修正條文") &&
			strings.Contains(rowText, "現行條文") &&
			strings.Contains(rowText, "說明"):
			return layoutAmendment, trimmedHeaders(row), i + 1

		case (strings.Contains(rowText, "條文") || strings.Contains(rowText, "修正條文")) &&
			strings.Contains(rowText, "說明") &&
			!strings.Contains(rowText, "現行條文"):
			return layoutNewBill, trimmedHeaders(row), i + 1
		}
	}

	if len(table) > 0 {
		switch len(table[0]) {
		case 3:
			return layoutAmendmentInferred, nil, 0
		case 2:
			return layoutNewBillInferred, nil, 0
		}
	}
	return layoutNone, nil, 0
}

func trimmedHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

// resolveColumns maps a layout to concrete column indices. Returns false
// when a required header cell is missing, which skips the whole table.
func resolveColumns(layout tableLayout, headers []string) (columnIndices, bool) {
	switch layout {
	case layoutAmendment:
		mod := indexOf(headers, "修正條文")
		cur := indexOf(headers, "現行條文")
		exp := indexOf(headers, "說明")
		if mod < 0 || cur < 0 || exp < 0 {
			return columnIndices{}, false
		}
		return columnIndices{modifiedCol: mod, currentCol: cur, explainCol: exp}, true

	case layoutNewBill:
		mod, exp := -1, -1
		for i, h := range headers {
			if strings.Contains(h, "條文") {
				mod = i
			}
			if strings.Contains(h, "說明") {
				exp = i
			}
		}
		if mod < 0 || exp < 0 {
			return columnIndices{}, false
		}
		return columnIndices{modifiedCol: mod, currentCol: -1, explainCol: exp}, true

	case layoutAmendmentInferred:
		return columnIndices{modifiedCol: 0, currentCol: 1, explainCol: 2}, true

	case layoutNewBillInferred:
		return columnIndices{modifiedCol: 0, currentCol: -1, explainCol: 1}, true
	}
	return columnIndices{}, false
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

// extractComparisonRows pulls the comparison entries out of one raw
// table. Rows shorter than the highest needed column are skipped, and a
// row only counts when its modified-text cell is non-blank.
func extractComparisonRows(table [][]string) []model.ComparisonEntry {
	if len(table) == 0 {
		return nil
	}

	layout, headers, dataStart := classifyTable(table)
	if layout == layoutNone {
		return nil
	}
	cols, ok := resolveColumns(layout, headers)
	if !ok {
		return nil
	}

	maxCol := cols.modifiedCol
	if cols.currentCol > maxCol {
		maxCol = cols.currentCol
	}
	if cols.explainCol > maxCol {
		maxCol = cols.explainCol
	}

	var entries []model.ComparisonEntry
	for _, row := range table[dataStart:] {
		if len(row) <= maxCol {
			continue
		}
		modified := row[cols.modifiedCol]
		if strings.TrimSpace(modified) == "" {
			continue
		}
		entry := model.ComparisonEntry{
			ModifiedText: modified,
			Explanation:  row[cols.explainCol],
		}
		if cols.currentCol >= 0 {
			entry.CurrentText = row[cols.currentCol]
		}
		entries = append(entries, entry)
	}
	return entries
}
