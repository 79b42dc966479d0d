package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cellStyle decorates a padded cell. It must not change the cell's
// display width.
type cellStyle func(row, col int, cell string) string

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool, style cellStyle) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			if w := displayWidth(cellAt(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, -1, widths, rightAlignCols, nil))
	}
	for r, row := range rows {
		lines = append(lines, formatRow(row, r, widths, rightAlignCols, style))
	}
	return lines
}

func formatRow(row []string, rowIndex int, widths []int, rightAlignCols map[int]bool, style cellStyle) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		cell := padCell(cellAt(row, i), widths[i], rightAlignCols[i])
		if style != nil {
			cell = style(rowIndex, i, cell)
		}
		b.WriteString(cell)
	}
	return strings.TrimRight(b.String(), " ")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// displayWidth counts terminal columns, so IPA combining marks take none.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
