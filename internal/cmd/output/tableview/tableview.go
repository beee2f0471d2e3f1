// Package tableview renders table.Table values: an interactive Bubble Tea
// view on terminals and a static table everywhere else.
package tableview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/segmentio/cli"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	cmdcommon "github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/theme"
)

// Detail loads the markdown shown when a row is opened.
type Detail[R any] func(ctx context.Context, row R) (string, error)

type config[R any] struct {
	title    string
	footer   string
	detail   Detail[R]
	saveDir  string
	saveName string
	saveTmpl string
	forceTTY bool
}

// Option configures Render.
type Option[R any] func(*config[R])

// WithTitle sets the line printed above the table.
func WithTitle[R any](title string) Option[R] {
	return func(c *config[R]) { c.title = title }
}

// WithFooter sets a line printed below the static table.
func WithFooter[R any](footer string) Option[R] {
	return func(c *config[R]) { c.footer = footer }
}

// WithDetail enables opening rows with enter or a click.
func WithDetail[R any](fn Detail[R]) Option[R] {
	return func(c *config[R]) { c.detail = fn }
}

// WithSave enables the save key. Files land in dir, named by the export
// filename template for report.
func WithSave[R any](dir, report, tmpl string) Option[R] {
	return func(c *config[R]) {
		c.saveDir, c.saveName, c.saveTmpl = dir, report, tmpl
	}
}

// Render shows tbl. On a terminal it runs the interactive view until the
// user quits; otherwise the visible rows are printed once.
func Render[R any](ctx context.Context, streams *iostreams.IOStreams, tbl *table.Table[R], opts ...Option[R]) error {
	if streams == nil || streams.Out == nil {
		return errors.New("tableview: output stream is not available")
	}
	var cfg config[R]
	for _, opt := range opts {
		opt(&cfg)
	}

	width, height := streams.TerminalSize()
	if !cfg.forceTTY && !streams.IsInteractive() {
		return WriteStatic(streams.Out, tbl, cfg.title, cfg.footer, width)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m := newModel(ctx, tbl, cfg, theme.Current(), width, height, streams.Out)
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// WriteStatic prints the visible rows of tbl as a plain table sized to
// width.
func WriteStatic[R any](out io.Writer, tbl *table.Table[R], title, footer string, width int) error {
	var sections []string
	if title != "" {
		sections = append(sections, lipgloss.NewStyle().Bold(true).Render(title))
	}

	if loading, msg := tbl.Loading(); loading {
		sections = append(sections, msg)
		_, err := fmt.Fprintln(out, strings.Join(sections, "\n"))
		return err
	}

	cols := tbl.Columns()
	rows := tbl.Visible()
	if len(cols) == 0 {
		sections = append(sections, "No data to display.")
		_, err := fmt.Fprintln(out, strings.Join(sections, "\n"))
		return err
	}

	cells := cellMatrix(tbl, rows)
	widths := columnWidths(cols, cells, width, 1)
	headers := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = fit(headerLabel(c.Title, c.Key, tbl.Sort(), tbl.Filter()), widths[i], table.AlignLeft)
		rules[i] = strings.Repeat("─", widths[i])
	}

	sections = append(sections,
		lipgloss.NewStyle().Bold(true).Render(strings.Join(headers, " ")),
		strings.Join(rules, " "))
	for _, r := range cells {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = fit(r[i], widths[i], c.Align)
		}
		sections = append(sections, strings.TrimRight(strings.Join(line, " "), " "))
	}
	if footer != "" {
		sections = append(sections, footer)
	}
	_, err := fmt.Fprintln(out, strings.Join(sections, "\n"))
	return err
}

// ApplyJQ runs the command's --jq filter over raw. handled reports that the
// result was already written.
func ApplyJQ(helper cmdpkg.Helper, outType cmdcommon.OutputFormat, raw any) (any, bool, error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return nil, false, err
	}
	settings, err := jqoutput.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return nil, false, err
	}
	if !settings.Active() {
		return raw, false, nil
	}
	filtered, handled, err := jqoutput.Apply(raw, outType, settings, helper.GetStreams().Out)
	if err != nil {
		var cfgErr *cmdpkg.ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, false, err
		}
		return nil, false, cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
	}
	return filtered, handled, nil
}

// RenderForFormat prints raw for json and yaml output, applying any --jq
// filter, and renders tbl for text output.
func RenderForFormat[R any](
	helper cmdpkg.Helper,
	outType cmdcommon.OutputFormat,
	printer cli.PrintFlusher,
	tbl *table.Table[R],
	raw any,
	opts ...Option[R],
) error {
	raw, handled, err := ApplyJQ(helper, outType, raw)
	if err != nil || handled {
		return err
	}

	switch outType {
	case cmdcommon.TEXT:
		return Render(helper.GetContext(), helper.GetStreams(), tbl, opts...)
	case cmdcommon.JSON, cmdcommon.YAML:
		if printer != nil {
			printer.Print(raw)
		}
		return nil
	default:
		return fmt.Errorf("tableview: unsupported output format %s", outType.String())
	}
}
