package get

import (
	"fmt"
	"io"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

var (
	rainbowShort = i18n.T("root.verbs.get.rainbowShort", "Show the rainbow classification of cases")
	rainbowLong  = normalizers.LongDesc(i18n.T("root.verbs.get.rainbowLong",
		`Without arguments the rainbow chart of the current detailed report is shown.
With a color (code or Russian name) the cases of that color are listed.`))
	rainbowExample = normalizers.Examples(i18n.T("root.verbs.get.rainbowExample",
		fmt.Sprintf(`
	# Show the rainbow chart
	%[1]s get rainbow
	# List the cases of the red category
	%[1]s get rainbow red
	`, meta.CLIName)))
)

type rainbowCmd struct {
	*cobra.Command
}

func (c *rainbowCmd) validate(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) > 1 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("at most one color may be given")}
	}
	if len(args) == 1 {
		if _, ok := transform.LookupColor(args[0]); !ok {
			return &cmd.ConfigurationError{Err: fmt.Errorf("unknown rainbow color %q", args[0])}
		}
	}
	return nil
}

func (c *rainbowCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	svc, err := helper.GetServices()
	if err != nil {
		return err
	}
	ctx := helper.GetContext()

	if len(args) == 0 {
		analysis, err := svc.Rainbow.Analyze(ctx)
		if err != nil {
			return reporting.ServiceError(helper, "analyze the rainbow", err)
		}
		return reporting.Print(helper, outType, printer, analysis, func(out io.Writer) error {
			if err := reporting.WriteChart(helper, out, transform.RainbowChart(analysis)); err != nil {
				return err
			}
			_, err := fmt.Fprintf(out, "Всего дел: %d\n", analysis.TotalCases)
			return err
		})
	}

	color, _ := transform.LookupColor(args[0])
	cases, err := svc.Rainbow.CasesByColor(ctx, color.Code)
	if err != nil {
		return reporting.ServiceError(helper, "list cases by color", err)
	}
	return renderCases(helper, outType, printer, svc, cases.Cases, cases,
		transform.PresetRainbowCases, fmt.Sprintf("%s: %d", color.Name, cases.Count))
}

// renderCases shows case summaries with the case card as drill-down.
func renderCases(
	helper cmd.Helper,
	outType common.OutputFormat,
	printer cli.PrintFlusher,
	svc *services.Services,
	rows []services.CaseSummary,
	raw any,
	preset, title string,
) error {
	presets, err := helper.GetPresets()
	if err != nil {
		return err
	}
	tbl := reporting.NewTable(helper, presets.CaseColumns(preset), presets.Get(preset), rows)
	save, err := reporting.SaveOption[services.CaseSummary](helper, preset)
	if err != nil {
		return err
	}
	return tableview.RenderForFormat(helper, outType, printer, tbl, raw,
		tableview.WithTitle[services.CaseSummary](title),
		tableview.WithDetail(reporting.CaseDetail(svc, reporting.Locale(helper),
			func(r services.CaseSummary) string { return r.CaseCode })),
		save,
	)
}

func newRainbowCmd() *rainbowCmd {
	rv := &rainbowCmd{Command: &cobra.Command{
		Use:       "rainbow [COLOR]",
		Short:     rainbowShort,
		Long:      rainbowLong,
		Example:   rainbowExample,
		ValidArgs: rainbowColorCodes(),
	}}
	rv.RunE = rv.runE
	return rv
}

func rainbowColorCodes() []string {
	codes := make([]string, len(transform.RainbowColors))
	for i, c := range transform.RainbowColors {
		codes[i] = c.Code
	}
	return codes
}
