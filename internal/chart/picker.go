package chart

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/legaldesk/casectl/internal/theme"
)

type pickerKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Choose key.Binding
	Quit   key.Binding
}

var defaultPickerKeys = pickerKeys{
	Next:   key.NewBinding(key.WithKeys("down", "right", "j", "l", "tab"), key.WithHelp("→/↓", "next")),
	Prev:   key.NewBinding(key.WithKeys("up", "left", "k", "h", "shift+tab"), key.WithHelp("←/↑", "previous")),
	Choose: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "drill down")),
	Quit:   key.NewBinding(key.WithKeys("q", "Q", "esc", "ctrl+c"), key.WithHelp("q", "back")),
}

// headerLines is the number of lines View prints above the chart.
const headerLines = 1

// Picker is an interactive chart: arrows move between non-empty elements and
// enter or a mouse click selects one.
type Picker struct {
	chart   Chart
	palette theme.Palette
	header  string
	width   int

	content string
	regions []Region
	focus   int

	selection Selection
	selected  bool
	keys      pickerKeys
}

// NewPicker builds a picker for c rendered at the given width.
func NewPicker(c Chart, p theme.Palette, header string, width int) *Picker {
	m := &Picker{
		chart:   c,
		palette: p,
		header:  header,
		width:   width,
		focus:   -1,
		keys:    defaultPickerKeys,
	}
	m.refresh()
	m.focus = m.step(-1, 1)
	m.refresh()
	return m
}

// Selection returns the chosen element, if any.
func (m *Picker) Selection() (Selection, bool) {
	return m.selection, m.selected
}

// Focus returns the region index that has keyboard focus, or -1.
func (m *Picker) Focus() int { return m.focus }

// Regions returns the regions of the last render.
func (m *Picker) Regions() []Region { return m.regions }

func (m *Picker) Init() tea.Cmd { return nil }

func (m *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.refresh()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.focus = m.step(m.focus, 1)
			m.refresh()
		case key.Matches(msg, m.keys.Prev):
			m.focus = m.step(m.focus, -1)
			m.refresh()
		case key.Matches(msg, m.keys.Choose):
			if m.focus >= 0 && m.focus < len(m.regions) && m.regions[m.focus].Clickable() {
				m.choose(m.regions[m.focus].Selection)
				return m, tea.Quit
			}
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if sel, ok := Hit(m.regions, msg.X, msg.Y-headerLines); ok {
			m.choose(sel)
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Picker) View() string {
	var sb strings.Builder
	sb.WriteString(m.palette.ForegroundStyle(theme.ColorTextMuted).Render(m.header))
	sb.WriteString("\n")
	sb.WriteString(m.content)
	sb.WriteString("\n\n")
	help := []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Choose, m.keys.Quit}
	parts := make([]string, len(help))
	for i, b := range help {
		parts[i] = b.Help().Key + " " + b.Help().Desc
	}
	sb.WriteString(m.palette.ForegroundStyle(theme.ColorTextMuted).Render(strings.Join(parts, " • ")))
	return sb.String()
}

func (m *Picker) choose(sel Selection) {
	m.selection = sel
	m.selected = true
}

func (m *Picker) refresh() {
	m.content, m.regions = m.chart.Render(m.palette, m.width, m.focus)
}

// step returns the next clickable region index from i in direction dir,
// wrapping around. It returns i when nothing is clickable.
func (m *Picker) step(i, dir int) int {
	n := len(m.regions)
	for k := 1; k <= n; k++ {
		j := ((i+dir*k)%n + n) % n
		if m.regions[j].Clickable() {
			return j
		}
	}
	return i
}
