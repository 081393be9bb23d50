package manifest

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r\n|\n|\r`)

// SplitRows breaks manifest text into rows of raw cells. Cells keep their
// quote characters; a comma only separates cells while the number of quotes
// seen so far on the row is even.
func SplitRows(text string) [][]string {
	lines := lineBreak.Split(text, -1)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitCells(line))
	}
	return rows
}

func splitCells(line string) []string {
	var (
		cells    []string
		cell     strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cell.WriteRune(r)
		case r == ',' && !inQuotes:
			cells = append(cells, cell.String())
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	return append(cells, cell.String())
}

// clean strips every double quote and surrounding whitespace.
func clean(cell string) string {
	return strings.TrimSpace(strings.ReplaceAll(cell, `"`, ""))
}
