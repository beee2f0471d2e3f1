package analyze

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/legaldesk/casectl/internal/analysis"
	"github.com/legaldesk/casectl/internal/theme"
)

type eventMsg analysis.Event

type doneMsg struct {
	snap analysis.Snapshot
	err  error
}

var cancelKey = key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "cancel"))

// progressModel shows a spinner on the running step and a bar over all
// steps. Cancelling waits for the in-flight step to return.
type progressModel struct {
	steps   []string
	states  map[string]analysis.Status
	errs    map[string]string
	current string
	settled int

	spinner spinner.Model
	bar     progress.Model
	palette theme.Palette

	run    func() tea.Msg
	cancel func()

	cancelling bool
	done       *doneMsg
}

func newProgressModel(steps []string, p theme.Palette, run func() tea.Msg, cancel func()) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = p.ForegroundStyle(theme.ColorAccent)

	return &progressModel{
		steps:   steps,
		states:  make(map[string]analysis.Status, len(steps)),
		errs:    map[string]string{},
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		palette: p,
		run:     run,
		cancel:  cancel,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, cancelKey) && !m.cancelling {
			m.cancelling = true
			m.cancel()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-10, 10), 60)
		return m, nil
	case eventMsg:
		m.apply(analysis.Event(msg))
		return m, nil
	case doneMsg:
		m.done = &msg
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(e analysis.Event) {
	m.states[e.Step] = e.Status
	switch e.Status {
	case analysis.StatusRunning:
		m.current = e.Step
	case analysis.StatusFailed:
		if e.Err != nil {
			m.errs[e.Step] = e.Err.Error()
		}
		m.settled++
	case analysis.StatusDone:
		m.settled++
	}
}

func (m *progressModel) View() string {
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	ok := m.palette.ForegroundStyle(theme.ColorSuccess)
	bad := m.palette.ForegroundStyle(theme.ColorDanger)

	var b strings.Builder
	for _, name := range m.steps {
		switch m.states[name] {
		case analysis.StatusRunning:
			fmt.Fprintf(&b, " %s %s\n", m.spinner.View(), name)
		case analysis.StatusDone:
			fmt.Fprintf(&b, " %s %s\n", ok.Render("✓"), name)
		case analysis.StatusFailed:
			fmt.Fprintf(&b, " %s %s %s\n", bad.Render("✗"), name, muted.Render(m.errs[name]))
		case analysis.StatusDiscarded:
			fmt.Fprintf(&b, " %s %s\n", muted.Render("⊘"), muted.Render(name))
		default:
			fmt.Fprintf(&b, "   %s\n", muted.Render(name))
		}
	}
	b.WriteString("\n ")
	b.WriteString(m.bar.ViewAs(float64(m.settled) / float64(max(len(m.steps), 1))))
	fmt.Fprintf(&b, " %d/%d\n", m.settled, len(m.steps))
	if m.cancelling {
		b.WriteString(muted.Render(" cancelling after " + m.current + "…"))
	} else {
		b.WriteString(muted.Render(" " + cancelKey.Help().Key + " " + cancelKey.Help().Desc))
	}
	b.WriteString("\n")
	return b.String()
}

// lineListener prints one line per settled step for non-interactive
// output.
func lineListener(out io.Writer) func(analysis.Event) {
	return func(e analysis.Event) {
		switch e.Status {
		case analysis.StatusRunning:
			return
		case analysis.StatusFailed:
			fmt.Fprintf(out, "[%d/%d] %s failed: %v\n", e.Index+1, e.Total, e.Step, e.Err)
		default:
			fmt.Fprintf(out, "[%d/%d] %s %s\n", e.Index+1, e.Total, e.Step, e.Status)
		}
	}
}
