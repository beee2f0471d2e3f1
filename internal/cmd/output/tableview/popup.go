package tableview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/theme"
)

const (
	popupWidth      = 36
	popupOptionRows = 8
	// sort items, search, divider, options, hint, and the border
	popupHeight = 3 + 1 + 1 + popupOptionRows + 1 + 2
	// content line of the first option, inside the border
	popupOptionsTop = 5
)

var sortItems = []struct {
	label string
	dir   table.SortDir
}{
	{"Sort ascending", table.SortAsc},
	{"Sort descending", table.SortDesc},
	{"Clear sort", table.SortNone},
}

// openControl opens column i's sort/filter popup below its header cell.
func (m *model[R]) openControl(i int) {
	if i < 0 || i >= len(m.controls) || m.controls[i] == nil {
		m.status = "This column cannot be sorted or filtered"
		return
	}
	ctrl := m.controls[i]
	ctrl.Open(m.headerRect(i), table.Size{W: popupWidth, H: popupHeight}, table.Size{W: m.width, H: m.height})
	p := ctrl.Placement()
	m.popup = ctrl
	m.popupRect = table.Rect{X: p.X, Y: p.Y, W: popupWidth, H: popupHeight}
	m.popupOffset = 0
	m.popupCursor = 0
	if len(ctrl.VisibleOptions()) > 0 {
		m.popupCursor = len(sortItems)
	}
	m.popupSearch.SetValue("")
	m.popupSearch.Blur()
	m.mode = modePopup
}

// closePopup leaves popup mode once the control has closed itself, or
// dismisses a control that is still open.
func (m *model[R]) closePopup() {
	if m.popup != nil && m.popup.IsOpen() {
		m.popup.Dismiss()
	}
	m.popup = nil
	m.popupSearch.Blur()
	if m.mode == modePopup || m.mode == modePopupSearch {
		m.mode = modeTable
	}
	m.refresh()
}

func (m *model[R]) popupItems() int {
	return len(sortItems) + len(m.popup.VisibleOptions())
}

func (m *model[R]) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := popupKeys
	switch {
	case key.Matches(msg, k.Close):
		m.closePopup()
	case key.Matches(msg, k.Up):
		m.movePopup(-1)
	case key.Matches(msg, k.Down):
		m.movePopup(1)
	case key.Matches(msg, k.Toggle):
		m.activate(false)
	case key.Matches(msg, k.Apply):
		m.activate(true)
	case key.Matches(msg, k.All):
		for _, o := range m.popup.VisibleOptions() {
			if !m.popup.Checked(o.Value) {
				m.popup.Toggle(o.Value)
			}
		}
	case key.Matches(msg, k.Reset):
		m.popup.Reset()
		m.closePopup()
	case key.Matches(msg, k.Search):
		m.mode = modePopupSearch
		return m, m.popupSearch.Focus()
	}
	return m, nil
}

func (m *model[R]) handlePopupSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modePopup
		m.popupSearch.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.popupSearch, cmd = m.popupSearch.Update(msg)
	m.popup.SetQuery(m.popupSearch.Value())
	m.popupOffset = 0
	m.popupCursor = clamp(m.popupCursor, 0, m.popupItems()-1)
	return m, cmd
}

func (m *model[R]) movePopup(delta int) {
	m.popupCursor = clamp(m.popupCursor+delta, 0, m.popupItems()-1)
	oi := m.popupCursor - len(sortItems)
	if oi < 0 {
		return
	}
	if oi < m.popupOffset {
		m.popupOffset = oi
	}
	if oi >= m.popupOffset+popupOptionRows {
		m.popupOffset = oi - popupOptionRows + 1
	}
}

// activate acts on the item under the cursor. Sort items commit at once;
// on an option space toggles and enter applies the selection.
func (m *model[R]) activate(apply bool) {
	if m.popupCursor < len(sortItems) {
		m.popup.ChooseSort(sortItems[m.popupCursor].dir)
		m.closePopup()
		return
	}
	if apply {
		m.popup.Apply()
		m.cursor = 0
		m.closePopup()
		return
	}
	opts := m.popup.VisibleOptions()
	if oi := m.popupCursor - len(sortItems); oi < len(opts) {
		m.popup.Toggle(opts[oi].Value)
	}
}

func (m *model[R]) clickPopup(x, y int) {
	if !m.popupRect.Contains(table.Point{X: x, Y: y}) {
		m.closePopup()
		return
	}
	line := y - m.popupRect.Y - 1
	switch {
	case line >= 0 && line < len(sortItems):
		m.popupCursor = line
		m.activate(false)
	case line >= popupOptionsTop && line < popupOptionsTop+popupOptionRows:
		idx := len(sortItems) + m.popupOffset + line - popupOptionsTop
		if idx < m.popupItems() {
			m.popupCursor = idx
			m.activate(false)
		}
	}
}

func (m *model[R]) popupView() string {
	inner := popupWidth - 4
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	accent := m.palette.ForegroundStyle(theme.ColorAccent).Bold(true)
	sort := m.tbl.Sort()

	lines := make([]string, 0, popupHeight-2)
	for i, it := range sortItems {
		label := it.label
		if (it.dir != table.SortNone && sort.Key == m.popup.Key() && sort.Dir == it.dir) ||
			(it.dir == table.SortNone && sort.Key != m.popup.Key()) {
			label += " ✓"
		}
		lines = append(lines, m.popupLine(label, i == m.popupCursor, inner, accent))
	}

	if m.mode == modePopupSearch {
		lines = append(lines, m.popupSearch.View())
	} else {
		lines = append(lines, muted.Render(fit("/ "+m.popup.Query(), inner, table.AlignLeft)))
	}
	lines = append(lines, muted.Render(strings.Repeat("─", inner)))

	opts := m.popup.VisibleOptions()
	for row := range popupOptionRows {
		oi := m.popupOffset + row
		switch {
		case oi < len(opts):
			box := "[ ] "
			if m.popup.Checked(opts[oi].Value) {
				box = "[x] "
			}
			lines = append(lines, m.popupLine(box+opts[oi].Label, len(sortItems)+oi == m.popupCursor, inner, accent))
		case row == 0:
			lines = append(lines, muted.Render(fit("(no values)", inner, table.AlignLeft)))
		default:
			lines = append(lines, "")
		}
	}
	lines = append(lines, muted.Render(fit(helpLine(popupKeys.Toggle, popupKeys.Apply, popupKeys.Reset), inner, table.AlignLeft)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.palette.Adaptive(theme.ColorBorder)).
		Background(m.palette.Adaptive(theme.ColorSurface)).
		Padding(0, 1).
		Width(popupWidth - 2).
		Render(strings.Join(lines, "\n"))
}

func (m *model[R]) popupLine(label string, focused bool, width int, accent lipgloss.Style) string {
	prefix := "  "
	if focused {
		prefix = "› "
	}
	line := fit(prefix+label, width, table.AlignLeft)
	if focused {
		return accent.Render(line)
	}
	return line
}

// overlay draws box over base with its top-left corner at x, y.
func overlay(base, box string, x, y int) string {
	lines := strings.Split(base, "\n")
	for i, bl := range strings.Split(box, "\n") {
		row := y + i
		for row >= len(lines) {
			lines = append(lines, "")
		}
		line := lines[row]
		if w := ansi.StringWidth(line); w < x {
			line += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(bl), "")
		lines[row] = left + bl + right
	}
	return strings.Join(lines, "\n")
}
