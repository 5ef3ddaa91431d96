package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultCellWidth is the widest a truncated cell gets when no width is given.
const DefaultCellWidth = 50

const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table. Cells may carry
// ANSI styling; column widths count only visible characters.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table.
func FormatTable(headers []string, rows [][]string) string {
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeTableCell(header)
	}

	normalizedRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		normalizedRow := make([]string, len(row))
		for i, cell := range row {
			normalizedRow[i] = normalizeTableCell(cell)
		}
		normalizedRows = append(normalizedRows, normalizedRow)
	}

	widths := make([]int, len(normalizedHeaders))
	for i, header := range normalizedHeaders {
		widths[i] = displayWidth(header)
	}

	for _, row := range normalizedRows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if displayLen := displayWidth(cell); displayLen > widths[i] {
				widths[i] = displayLen
			}
		}
	}

	var builder strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			cellWidth := displayWidth(cell)
			builder.WriteString(cell)
			if i == len(row)-1 {
				builder.WriteByte('\n')
				continue
			}
			padding := widths[i] - cellWidth
			builder.WriteString(strings.Repeat(" ", padding+2))
		}
	}

	writeRow(normalizedHeaders)
	for _, row := range normalizedRows {
		writeRow(row)
	}

	return builder.String()
}

// TruncateTableCell limits a cell to width visible characters, ending it with
// an ellipsis when cut. A width of zero or less means DefaultCellWidth.
func TruncateTableCell(value string, width int) string {
	if width <= 0 {
		width = DefaultCellWidth
	}
	value = normalizeTableCell(value)
	if displayWidth(value) <= width {
		return value
	}

	max := width - displayWidth(tableCellEllipsis)
	if max <= 0 {
		return tableCellEllipsis
	}
	return truncateVisible(value, max) + tableCellEllipsis
}

// displayWidth counts terminal columns, so wide runes take two.
func displayWidth(value string) int {
	return runewidth.StringWidth(stripANSICodes(value))
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}

// truncateVisible keeps at most max columns of value, passing SGR escape
// sequences through untouched.
func truncateVisible(value string, max int) string {
	if max <= 0 {
		return ""
	}

	var builder strings.Builder
	visible := 0
	for i := 0; i < len(value); {
		if end := sgrEnd(value, i); end > i {
			builder.WriteString(value[i:end])
			i = end
			continue
		}
		r, size := utf8.DecodeRuneInString(value[i:])
		width := 1
		if r != utf8.RuneError || size != 1 {
			width = runewidth.RuneWidth(r)
		}
		if visible+width > max {
			break
		}
		builder.WriteString(value[i : i+size])
		visible += width
		i += size
	}
	return builder.String()
}

// sgrEnd returns the index just past an escape sequence starting at i, or i
// when there is none.
func sgrEnd(value string, i int) int {
	if value[i] != '\x1b' || i+1 >= len(value) || value[i+1] != '[' {
		return i
	}
	end := i + 2
	for end < len(value) && value[end] != 'm' {
		end++
	}
	if end < len(value) {
		end++
	}
	return end
}

func stripANSICodes(input string) string {
	var builder strings.Builder
	inEscape := false
	for i := 0; i < len(input); i++ {
		char := input[i]
		if inEscape {
			if char == 'm' {
				inEscape = false
			}
			continue
		}
		if char == '\x1b' {
			inEscape = true
			continue
		}
		builder.WriteByte(char)
	}
	return builder.String()
}
