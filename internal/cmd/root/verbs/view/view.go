package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/chart"
	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/theme"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.View
)

// charts that can be browsed, the first is the default
var charts = []string{
	transform.RainbowChartName,
	string(services.Lawsuit),
	string(services.Order),
	transform.DocumentsChartName,
}

var (
	viewUse = Verb.String() + " [CHART]"

	viewShort = i18n.T("root.verbs.view.viewShort", "Browse the analysis charts interactively")

	viewLong = normalizers.LongDesc(i18n.T("root.verbs.view.viewLong",
		fmt.Sprintf(`Open a chart in the terminal and drill down into the cases behind a bar
or a segment. Closing the case table returns to the chart; q on the chart
exits. CHART is one of %s and defaults to the rainbow.`, strings.Join(charts, ", "))))

	viewExamples = normalizers.Examples(i18n.T("root.verbs.view.viewExamples",
		fmt.Sprintf(`
		# Browse the rainbow
		%[1]s view
		# Browse the court order deadline checks
		%[1]s view order
		`, meta.CLIName)))
)

type viewCmd struct {
	*cobra.Command
}

func (c *viewCmd) validate(helper cmdpkg.Helper) error {
	args := helper.GetArgs()
	if len(args) > 1 {
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("at most one chart may be given")}
	}
	if len(args) == 1 && !slices.Contains(charts, args[0]) {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("unknown chart %q, must be one of %s", args[0], strings.Join(charts, ", ")),
		}
	}
	if !helper.IsInteractive() {
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("%s needs an interactive terminal", Verb)}
	}
	return nil
}

func (c *viewCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	name := charts[0]
	if len(args) == 1 {
		name = args[0]
	}

	svc, err := helper.GetServices()
	if err != nil {
		return err
	}
	ctx := helper.GetContext()
	streams := helper.GetStreams()
	palette := theme.FromContext(ctx)

	for {
		ch, err := loadChart(ctx, svc, name)
		if err != nil {
			return reporting.ServiceError(helper, "load the "+name+" chart", err)
		}
		width, _ := streams.TerminalSize()
		picker := chart.NewPicker(ch, palette,
			fmt.Sprintf("%s %s · %s", meta.CLIName, Verb, name), width)
		program := tea.NewProgram(picker,
			tea.WithContext(ctx),
			tea.WithInput(streams.In),
			tea.WithOutput(streams.Out),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "chart view failed", err)
		}

		sel, ok := picker.Selection()
		if !ok {
			return nil
		}
		helper.GetLogger().Debug("chart selection", "chart", sel.Chart, "name", sel.Name, "status", sel.Status)
		if err := drillDown(helper, svc, sel); err != nil {
			return err
		}
	}
}

func loadChart(ctx context.Context, svc *services.Services, name string) (chart.Chart, error) {
	switch name {
	case transform.RainbowChartName:
		a, err := svc.Rainbow.Analyze(ctx)
		if err != nil {
			return nil, err
		}
		return transform.RainbowChart(a), nil
	case transform.DocumentsChartName:
		data, err := svc.Documents.Charts(ctx)
		if err != nil {
			return nil, err
		}
		return transform.DocumentsChart(data), nil
	default:
		kind, err := services.ParseKind(name)
		if err != nil {
			return nil, err
		}
		data, err := svc.Terms.Charts(ctx, kind)
		if err != nil {
			return nil, err
		}
		return transform.TermsChart(kind, data), nil
	}
}

// drillDown opens the table of the cases or documents behind sel.
func drillDown(helper cmdpkg.Helper, svc *services.Services, sel chart.Selection) error {
	ctx := helper.GetContext()
	presets, err := helper.GetPresets()
	if err != nil {
		return err
	}
	locale := reporting.Locale(helper)

	switch sel.Chart {
	case transform.RainbowChartName:
		res, err := svc.Rainbow.CasesByColor(ctx, sel.Name)
		if err != nil {
			return reporting.ServiceError(helper, "list cases by color", err)
		}
		return showCases(helper, svc, presets, res.Cases, transform.PresetRainbowCases,
			fmt.Sprintf("%s: %d", sel.Label, res.Count))

	case transform.DocumentsChartName:
		res, err := svc.Documents.Filter(ctx, sel.Status, sel.Name)
		if err != nil {
			return reporting.ServiceError(helper, "filter documents", err)
		}
		tbl := reporting.NewTable(helper,
			presets.RecordColumns(transform.PresetDocuments, res.Documents),
			presets.Get(transform.PresetDocuments), res.Documents)
		save, err := reporting.SaveOption[services.Record](helper, transform.PresetDocuments)
		if err != nil {
			return err
		}
		return tableview.Render(ctx, helper.GetStreams(), tbl,
			tableview.WithTitle[services.Record](fmt.Sprintf("%s / %s: %d",
				sel.Name, transform.StatusLabel(sel.Status), res.Count)),
			tableview.WithDetail(reporting.RecordDetail("Документ", locale)),
			save,
		)

	default:
		kind, err := services.ParseKind(sel.Chart)
		if err != nil {
			return err
		}
		res, err := svc.Terms.FilteredCases(ctx, kind, sel.Name, sel.Status)
		if err != nil {
			return reporting.ServiceError(helper, "list cases of "+sel.Name, err)
		}
		title := sel.Name
		if check, ok := transform.FindCheck(kind, sel.Name); ok {
			title = check.Title
		}
		return showCases(helper, svc, presets, res.Cases, transform.PresetStageCases,
			fmt.Sprintf("%s / %s: %d", title, transform.StatusLabel(sel.Status), res.Count))
	}
}

func showCases(
	helper cmdpkg.Helper,
	svc *services.Services,
	presets transform.Presets,
	rows []services.CaseSummary,
	preset, title string,
) error {
	tbl := reporting.NewTable(helper, presets.CaseColumns(preset), presets.Get(preset), rows)
	save, err := reporting.SaveOption[services.CaseSummary](helper, preset)
	if err != nil {
		return err
	}
	return tableview.Render(helper.GetContext(), helper.GetStreams(), tbl,
		tableview.WithTitle[services.CaseSummary](title),
		tableview.WithDetail(reporting.CaseDetail(svc, reporting.Locale(helper),
			func(r services.CaseSummary) string { return r.CaseCode })),
		save,
	)
}

// NewViewCmd creates the view command which browses the analysis charts.
func NewViewCmd() (*cobra.Command, error) {
	c := &viewCmd{Command: &cobra.Command{
		Use:       viewUse,
		Short:     viewShort,
		Long:      viewLong,
		Example:   viewExamples,
		Aliases:   []string{"v", "V"},
		ValidArgs: charts,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}}
	c.RunE = c.runE
	return c.Command, nil
}
