package tableview

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/legaldesk/casectl/internal/export"
	"github.com/legaldesk/casectl/internal/render"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/theme"
)

type mode int

const (
	modeTable mode = iota
	modeSearch
	modePopup
	modePopupSearch
	modeDetail
)

const (
	// screen rows above the bubbles table: the title bar
	titleLines  = 1
	headerLine  = titleLines
	bodyTop     = titleLines + 1
	footerLines = 2
)

type detailLoadedMsg struct {
	content string
	err     error
}

// copyText writes to the system clipboard and falls back to OSC52 through
// the program output.
var copyText = func(out io.Writer, text string) {
	if err := clipboard.WriteAll(text); err != nil {
		termenv.NewOutput(out).Copy(text)
	}
}

type model[R any] struct {
	ctx context.Context
	tbl *table.Table[R]
	cfg config[R]
	out io.Writer

	view     btable.Model
	cols     []table.Column[R]
	widths   []int
	controls []*table.Control

	palette  theme.Palette
	themes   []string
	themeIdx int

	width, height int
	mode          mode

	rows       []R
	cells      [][]string
	visibleIdx []int
	cursor     int
	offset     int
	col        int

	search textinput.Model
	query  string

	popup       *table.Control
	popupRect   table.Rect
	popupCursor int
	popupOffset int
	popupSearch textinput.Model

	detail  viewport.Model
	loading bool
	spinner spinner.Model

	status string
}

func newModel[R any](ctx context.Context, tbl *table.Table[R], cfg config[R], p theme.Palette,
	width, height int, out io.Writer,
) *model[R] {
	m := &model[R]{
		ctx:    ctx,
		tbl:    tbl,
		cfg:    cfg,
		out:    out,
		cols:   tbl.Columns(),
		width:  width,
		height: height,
		themes: theme.Available(),
	}
	for i, name := range m.themes {
		if name == p.Name {
			m.themeIdx = i
		}
	}

	id := uuid.NewString()
	m.controls = make([]*table.Control, len(m.cols))
	for i, c := range m.cols {
		if c.Sortable() {
			m.controls[i] = table.NewControl(id+":"+c.Key, c.Key, tbl, table.SharedCoordinator())
		}
	}

	m.search = textinput.New()
	m.search.Prompt = "/"
	m.search.Placeholder = "search rows"
	m.popupSearch = textinput.New()
	m.popupSearch.Prompt = "/ "
	m.popupSearch.Placeholder = "search values"
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.view = btable.New(btable.WithFocused(true))

	m.applyPalette(p)
	m.refresh()
	return m
}

func (m *model[R]) Init() tea.Cmd { return nil }

func (m *model[R]) bodyHeight() int {
	return max(m.height-titleLines-1-footerLines, 1)
}

// refresh recomputes the visible rows, applies the row search and pushes
// the current window into the bubbles table.
func (m *model[R]) refresh() {
	visible := m.tbl.Visible()
	all := cellMatrix(m.tbl, visible)
	q := strings.ToLower(strings.TrimSpace(m.query))

	m.rows, m.cells, m.visibleIdx = m.rows[:0], m.cells[:0], m.visibleIdx[:0]
	for i, line := range all {
		if q != "" && !containsFold(line, q) {
			continue
		}
		m.rows = append(m.rows, visible[i])
		m.cells = append(m.cells, line)
		m.visibleIdx = append(m.visibleIdx, i)
	}

	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	m.col = clamp(m.col, 0, len(m.cols)-1)
	m.widths = columnWidths(m.cols, m.cells, m.width-2, 2)
	m.sync()
}

func containsFold(cells []string, q string) bool {
	for _, c := range cells {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// sync renders the window of rows starting at offset into the bubbles
// table, which only draws; scrolling and the cursor live here.
func (m *model[R]) sync() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = clamp(m.offset, 0, max(len(m.rows)-h, 0))

	sort, filter := m.tbl.Sort(), m.tbl.Filter()
	cols := make([]btable.Column, len(m.cols))
	for i, c := range m.cols {
		title := headerLabel(c.Title, c.Key, sort, filter)
		if i == m.col {
			title = "›" + title
		}
		cols[i] = btable.Column{Title: title, Width: m.widths[i]}
	}

	end := min(m.offset+h, len(m.rows))
	window := make([]btable.Row, 0, end-m.offset)
	for _, line := range m.cells[m.offset:end] {
		window = append(window, btable.Row(line))
	}

	m.view.SetRows(nil)
	m.view.SetColumns(cols)
	m.view.SetRows(window)
	m.view.SetHeight(h + 1)
	m.view.SetWidth(m.width)
	m.view.SetCursor(max(m.cursor-m.offset, 0))
}

func (m *model[R]) applyPalette(p theme.Palette) {
	m.palette = p
	styles := btable.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(p.Adaptive(theme.ColorTextPrimary)).
		Background(p.Adaptive(theme.ColorSurface))
	styles.Cell = styles.Cell.Foreground(p.Adaptive(theme.ColorTextPrimary))
	styles.Selected = styles.Selected.
		Foreground(p.Adaptive(theme.ColorAccentText)).
		Background(p.Adaptive(theme.ColorAccent))
	m.view.SetStyles(styles)
	m.spinner.Style = p.ForegroundStyle(theme.ColorAccent)
}

func (m *model[R]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width, m.detail.Height = msg.Width, max(msg.Height-footerLines-titleLines, 1)
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Failed to load details: " + msg.err.Error()
			return m, nil
		}
		m.detail = viewport.New(m.width, max(m.height-footerLines-titleLines, 1))
		m.detail.SetContent(render.Markdown(msg.content, render.Options{Width: max(m.width-2, 20)}))
		m.mode = modeDetail
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *model[R]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.closePopup()
		return m, tea.Quit
	}

	switch m.mode {
	case modeDetail:
		if key.Matches(msg, defaultKeys.Quit) {
			m.mode = modeTable
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case modeSearch:
		return m.handleSearchKey(msg)
	case modePopup:
		return m.handlePopupKey(msg)
	case modePopupSearch:
		return m.handlePopupSearchKey(msg)
	}

	k := defaultKeys
	switch {
	case key.Matches(msg, k.Quit):
		if msg.String() == "esc" && m.query != "" {
			m.query = ""
			m.refresh()
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		m.move(-1)
	case key.Matches(msg, k.Down):
		m.move(1)
	case key.Matches(msg, k.PageUp):
		m.move(-m.bodyHeight())
	case key.Matches(msg, k.PageDown):
		m.move(m.bodyHeight())
	case key.Matches(msg, k.Top):
		m.move(-len(m.rows))
	case key.Matches(msg, k.Bottom):
		m.move(len(m.rows))
	case key.Matches(msg, k.Left):
		m.col = clamp(m.col-1, 0, len(m.cols)-1)
		m.sync()
	case key.Matches(msg, k.Right):
		m.col = clamp(m.col+1, 0, len(m.cols)-1)
		m.sync()
	case key.Matches(msg, k.Control):
		m.openControl(m.col)
	case key.Matches(msg, k.Search):
		m.mode = modeSearch
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, k.Open):
		return m, m.open()
	case key.Matches(msg, k.Copy):
		m.copyRow()
	case key.Matches(msg, k.Save):
		m.save()
	case key.Matches(msg, k.Theme):
		m.nextTheme()
	case key.Matches(msg, k.Reset):
		m.tbl.Reset()
		m.query = ""
		m.status = "Filters and sort cleared"
		m.refresh()
	}
	return m, nil
}

func (m *model[R]) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeTable
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m *model[R]) move(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	m.sync()
}

// open fires the table's row callback and loads the row detail, if any.
func (m *model[R]) open() tea.Cmd {
	if len(m.rows) == 0 || m.loading {
		return nil
	}
	m.tbl.Click(m.visibleIdx[m.cursor])
	if m.cfg.detail == nil {
		return nil
	}
	row := m.rows[m.cursor]
	m.loading = true
	m.status = ""
	load := func() tea.Msg {
		content, err := m.cfg.detail(m.ctx, row)
		return detailLoadedMsg{content: content, err: err}
	}
	return tea.Batch(m.spinner.Tick, load)
}

func (m *model[R]) copyRow() {
	if len(m.rows) == 0 {
		return
	}
	copyText(m.out, strings.Join(m.cells[m.cursor], "\t"))
	m.status = "Copied row to clipboard"
}

func (m *model[R]) save() {
	if m.cfg.saveName == "" {
		m.status = "Saving is not available for this view"
		return
	}
	name, err := export.Filename(m.cfg.saveTmpl, export.FilenameData{Report: m.cfg.saveName, Now: time.Now()})
	if err != nil {
		m.status = "Save failed: " + err.Error()
		return
	}
	headers := make([]string, len(m.cols))
	for i, c := range m.cols {
		headers[i] = c.Title
	}
	rows := make([][]any, len(m.cells))
	for i, line := range m.cells {
		rows[i] = make([]any, len(line))
		for j, v := range line {
			rows[i][j] = v
		}
	}
	data, err := export.XLSXBytes(export.Sheet{Name: m.cfg.saveName, Headers: headers, Rows: rows})
	if err != nil {
		m.status = "Save failed: " + err.Error()
		return
	}
	path, err := export.WriteBlob(m.cfg.saveDir, name, data)
	if err != nil {
		m.status = "Save failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("Saved %d rows to %s", len(rows), path)
}

func (m *model[R]) nextTheme() {
	if len(m.themes) == 0 {
		return
	}
	m.themeIdx = (m.themeIdx + 1) % len(m.themes)
	name := m.themes[m.themeIdx]
	if p, ok := theme.Get(name); ok {
		m.applyPalette(p)
		m.status = "Theme: " + name
	}
}

func (m *model[R]) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeDetail:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case modePopup, modePopupSearch:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.clickPopup(msg.X, msg.Y)
		}
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.move(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.move(1)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y == headerLine {
		for i := range m.cols {
			if m.headerRect(i).Contains(table.Point{X: msg.X, Y: msg.Y}) {
				m.col = i
				m.openControl(i)
				break
			}
		}
		return m, nil
	}
	if msg.Y >= bodyTop && msg.Y < bodyTop+m.bodyHeight() {
		idx := m.offset + msg.Y - bodyTop
		if idx < len(m.rows) {
			m.cursor = idx
			m.sync()
			return m, m.open()
		}
	}
	return m, nil
}

// headerRect is the screen area of column i's header cell, including the
// cell padding bubbles adds on each side.
func (m *model[R]) headerRect(i int) table.Rect {
	x := 0
	for j := 0; j < i; j++ {
		x += m.widths[j] + 2
	}
	return table.Rect{X: x, Y: headerLine, W: m.widths[i] + 2, H: 1}
}

func (m *model[R]) View() string {
	if m.mode == modeDetail {
		title := m.palette.ForegroundStyle(theme.ColorPrimary).Bold(true).Render(m.cfg.title)
		help := m.palette.ForegroundStyle(theme.ColorTextMuted).Render("↑/↓ scroll • esc back")
		return lipgloss.JoinVertical(lipgloss.Left, title, m.detail.View(), "", help)
	}

	var body string
	if loading, msg := m.tbl.Loading(); loading {
		body = msg
	} else {
		body = m.view.View()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, m.titleBar(), body)
	if pad := titleLines + 1 + m.bodyHeight() - lipgloss.Height(screen); pad > 0 {
		screen += strings.Repeat("\n", pad)
	}
	screen = lipgloss.JoinVertical(lipgloss.Left, screen, m.statusLine(), m.helpLine())

	if m.popup != nil && m.popup.IsOpen() {
		screen = overlay(screen, m.popupView(), m.popupRect.X, m.popupRect.Y)
	}
	return screen
}

func (m *model[R]) titleBar() string {
	title := m.cfg.title
	if title == "" {
		title = "Results"
	}
	count := fmt.Sprintf("%d of %d rows", len(m.rows), len(m.tbl.Rows()))
	if n := len(m.tbl.Filter()); n > 0 {
		count += fmt.Sprintf(" • %d filtered columns", n)
	}
	return m.palette.ForegroundStyle(theme.ColorPrimary).Bold(true).Render(title) + "  " +
		m.palette.ForegroundStyle(theme.ColorTextMuted).Render(count)
}

func (m *model[R]) statusLine() string {
	switch {
	case m.mode == modeSearch:
		return m.search.View()
	case m.loading:
		return m.spinner.View() + " Loading details…"
	case m.query != "":
		return m.palette.ForegroundStyle(theme.ColorInfo).Render("search: " + m.query)
	}
	return m.palette.ForegroundStyle(theme.ColorTextSecondary).Render(m.status)
}

func (m *model[R]) helpLine() string {
	k := defaultKeys
	return m.palette.ForegroundStyle(theme.ColorTextMuted).Render(
		helpLine(k.Up, k.Down, k.Left, k.Control, k.Search, k.Open, k.Copy, k.Save, k.Theme, k.Reset, k.Quit))
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
