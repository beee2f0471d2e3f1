package tableview

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/legaldesk/casectl/internal/table"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 40
	// room for the focus, sort and filter markers around a header title
	titleMarkers = 5
)

func cellMatrix[R any](tbl *table.Table[R], rows []R) [][]string {
	cols := tbl.Columns()
	out := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = strings.ReplaceAll(tbl.Cell(r, c), "\n", " ")
		}
		out[i] = line
	}
	return out
}

// columnWidths sizes each column from its preferred width or its content,
// then narrows the widest columns until the row, with gap cells between
// columns, fits in total.
func columnWidths[R any](cols []table.Column[R], cells [][]string, total, gap int) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = runewidth.StringWidth(c.Title) + titleMarkers
			for _, r := range cells {
				w = max(w, runewidth.StringWidth(r[i]))
			}
			w = min(w, maxColumnWidth)
		}
		widths[i] = max(w, minColumnWidth)
	}
	if total <= 0 {
		return widths
	}

	budget := total - gap*max(len(cols)-1, 0)
	for sum(widths) > budget {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int, align table.Align) string {
	s = runewidth.Truncate(s, w, "…")
	switch align {
	case table.AlignRight:
		return runewidth.FillLeft(s, w)
	case table.AlignCenter:
		pad := w - runewidth.StringWidth(s)
		return strings.Repeat(" ", pad/2) + runewidth.FillRight(s, w-pad/2)
	}
	return runewidth.FillRight(s, w)
}

// headerLabel decorates a title with the sort direction and a filter marker.
func headerLabel(title, key string, sort table.SortState, filter table.FilterState) string {
	var b strings.Builder
	b.WriteString(title)
	if sort.Key == key {
		switch sort.Dir {
		case table.SortAsc:
			b.WriteString(" ▲")
		case table.SortDesc:
			b.WriteString(" ▼")
		}
	}
	if filter.Active(key) {
		b.WriteString(" ●")
	}
	return b.String()
}
