// Package reporting holds the pieces shared by the commands that talk to the
// reporting backend: output setup, table construction and drill-down
// loaders.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/analysis"
	"github.com/legaldesk/casectl/internal/chart"
	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/render"
	"github.com/legaldesk/casectl/internal/reporting/apiclient"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/theme"
	"github.com/legaldesk/casectl/internal/transform"
)

// Printer resolves the output format and builds the matching printer. The
// caller flushes it.
func Printer(helper cmdpkg.Helper) (common.OutputFormat, cli.PrintFlusher, error) {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return common.TEXT, nil, err
	}
	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return outType, nil, err
	}
	return outType, p, nil
}

// Print writes raw through the printer for json and yaml output, applying
// any --jq filter, and calls text for text output.
func Print(
	helper cmdpkg.Helper,
	outType common.OutputFormat,
	printer cli.PrintFlusher,
	raw any,
	text func(out io.Writer) error,
) error {
	raw, handled, err := tableview.ApplyJQ(helper, outType, raw)
	if err != nil || handled {
		return err
	}
	if outType == common.TEXT && text != nil {
		return text(helper.GetStreams().Out)
	}
	printer.Print(raw)
	return nil
}

// WriteChart draws c once at the terminal width.
func WriteChart(helper cmdpkg.Helper, out io.Writer, c chart.Chart) error {
	width, _ := helper.GetStreams().TerminalSize()
	content, _ := c.Render(theme.FromContext(helper.GetContext()), width, -1)
	_, err := fmt.Fprintln(out, content)
	return err
}

// WriteMarkdown renders a markdown document, in color only on terminals.
func WriteMarkdown(helper cmdpkg.Helper, out io.Writer, markdown string) error {
	streams := helper.GetStreams()
	width, _ := streams.TerminalSize()
	_, err := fmt.Fprint(out, render.Markdown(markdown, render.Options{
		NoColor: !streams.IsInteractive(),
		Width:   width,
	}))
	return err
}

// Locale returns the configured table locale.
func Locale(helper cmdpkg.Helper) string {
	cfg, err := helper.GetConfig()
	if err != nil {
		return common.DefaultTableLocale
	}
	if l := strings.TrimSpace(cfg.GetString(common.TableLocaleConfigPath)); l != "" {
		return l
	}
	return common.DefaultTableLocale
}

// NewTable builds a table over rows using the profile locale and the
// preset's initial sort.
func NewTable[R any](helper cmdpkg.Helper, cols []table.Column[R], preset transform.Preset, rows []R) *table.Table[R] {
	tbl := table.New(cols, table.WithLocale[R](Locale(helper)))
	tbl.SetRows(rows)
	if s := preset.InitialSort(); s.Active() {
		if _, ok := tbl.Column(s.Key); ok {
			tbl.SetSort(s)
		}
	}
	return tbl
}

// SaveOption enables saving the visible rows of a table under the export
// directory.
func SaveOption[R any](helper cmdpkg.Helper, report string) (tableview.Option[R], error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return nil, err
	}
	return tableview.WithSave[R](
		cfg.GetString(common.ExportDirConfigPath),
		report,
		cfg.GetString(common.ExportFilenameTemplatePath),
	), nil
}

// CaseDetail loads the grouped case card for a row.
func CaseDetail[R any](svc *services.Services, locale string, code func(R) string) tableview.Detail[R] {
	layout := table.DateLayout(locale)
	return func(ctx context.Context, row R) (string, error) {
		c, err := svc.Cases.Get(ctx, code(row))
		if err != nil {
			return "", err
		}
		return render.CaseMarkdown(c, layout), nil
	}
}

// TaskDetail renders a task row.
func TaskDetail(_ context.Context, t services.Task) (string, error) {
	return render.TaskMarkdown(t), nil
}

// RecordDetail renders a free-form row.
func RecordDetail(title, locale string) tableview.Detail[services.Record] {
	layout := table.DateLayout(locale)
	return func(_ context.Context, r services.Record) (string, error) {
		return render.RecordMarkdown(title, r, layout), nil
	}
}

// ServiceError wraps a backend failure for printing. Backend messages are
// shown as they are.
func ServiceError(helper cmdpkg.Helper, action string, err error) error {
	if err == nil {
		return nil
	}
	var cfgErr *cmdpkg.ConfigurationError
	if errors.As(err, &cfgErr) {
		return err
	}
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("failed to %s: %s", action, httpErr.Message), err,
			"status", httpErr.StatusCode)
	}
	var domainErr *apiclient.DomainError
	if errors.As(err, &domainErr) {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("failed to %s: %s", action, domainErr.Error()), err)
	}
	return cmdpkg.PrepareExecutionErrorWithHelper(helper, fmt.Sprintf("failed to %s", action), err)
}

// ExactArgs is cobra.ExactArgs with a message naming the expected
// arguments.
func ExactArgs(n int, names string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("expected %s, got %d argument(s)", names, len(args)),
			}
		}
		return nil
	}
}

// WriteSnapshot prints the state of an analysis run, one line per step.
func WriteSnapshot(out io.Writer, s analysis.Snapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run:      %s\n", s.RunID)
	fmt.Fprintf(&b, "Started:  %s\n", s.StartedAt.Local().Format(time.DateTime))
	if !s.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "Finished: %s\n", s.FinishedAt.Local().Format(time.DateTime))
	}
	state := "incomplete"
	switch {
	case s.IsComplete:
		state = "complete"
	case s.Cancelled:
		state = "cancelled"
	}
	fmt.Fprintf(&b, "State:    %s\n", state)

	failed := map[string]string{}
	for _, f := range s.Failed {
		failed[f.Step] = f.Message
	}
	for _, name := range analysis.StepNames {
		msg, isFailed := failed[name]
		switch {
		case slices.Contains(s.Completed, name):
			fmt.Fprintf(&b, "  ✓ %s\n", name)
		case isFailed:
			fmt.Fprintf(&b, "  ✗ %s: %s\n", name, msg)
		default:
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	_, err := io.WriteString(out, b.String())
	return err
}
