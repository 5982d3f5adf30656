package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. Numeric columns align right.
type column struct {
	title string
	right bool
}

func columns(titles []string, right ...int) []column {
	cols := make([]column, len(titles))
	for i, title := range titles {
		cols[i].title = title
	}
	for _, i := range right {
		if i >= 0 && i < len(cols) {
			cols[i].right = true
		}
	}
	return cols
}

// formatTable lays rows out under a header and a rule line. Extra cells
// beyond the declared columns are dropped; missing cells render empty.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = displayWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if w := displayWidth(cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := make([]string, len(cols))
	rule := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
		rule[i] = strings.Repeat("─", widths[i])
	}
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, formatRow(cols, widths, header), formatRow(cols, widths, rule))
	for _, row := range rows {
		lines = append(lines, formatRow(cols, widths, row))
	}
	return lines
}

func formatRow(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = padCell(cell(row, i), widths[i], c.right)
	}
	return strings.TrimRight(strings.Join(cells, "  "), " ")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func padCell(value string, width int, right bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if right {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// displayWidth counts terminal cells so emoji and Cyrillic align.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
