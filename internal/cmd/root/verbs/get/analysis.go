package get

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/analysis"
	"github.com/legaldesk/casectl/internal/chart"
	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

var (
	analysisShort = i18n.T("root.verbs.get.analysisShort", "Show the last stored analysis")
	analysisLong  = normalizers.LongDesc(i18n.T("root.verbs.get.analysisLong",
		`Read the last analysis run from the local store without contacting the backend.
Without arguments the run summary is printed. With a step name the newest
successful result of that step is shown.`))
	analysisExample = normalizers.Examples(i18n.T("root.verbs.get.analysisExample",
		fmt.Sprintf(`
	# Summary of the last run
	%[1]s get analysis
	# The stored rainbow result
	%[1]s get analysis rainbow
	`, meta.CLIName)))
)

type analysisCmd struct {
	*cobra.Command
}

func (c *analysisCmd) validate(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) > 1 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("at most one step may be given")}
	}
	if len(args) == 1 && !slices.Contains(analysis.StepNames, args[0]) {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("unknown step %q, must be one of %s", args[0], strings.Join(analysis.StepNames, ", ")),
		}
	}
	return nil
}

func (c *analysisCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	st, err := helper.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := helper.GetContext()

	if len(args) == 0 {
		snap, ok, err := analysis.Latest(ctx, st)
		if err != nil {
			return cmd.PrepareExecutionErrorWithHelper(helper, "failed to read the last analysis", err)
		}
		if !ok {
			return cmd.PrepareExecutionErrorMsg(helper, "no analysis has been run yet")
		}
		return reporting.Print(helper, outType, printer, snap, func(out io.Writer) error {
			return reporting.WriteSnapshot(out, snap)
		})
	}

	step := args[0]
	result, ok, err := analysis.LatestResult[json.RawMessage](ctx, st, step)
	if err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "failed to read the stored "+step+" result", err)
	}
	if !ok {
		return cmd.PrepareExecutionErrorMsg(helper, fmt.Sprintf("no successful %s result is stored", step))
	}
	var payload any
	if err := json.Unmarshal(result, &payload); err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "failed to decode the stored result", err)
	}
	return reporting.Print(helper, outType, printer, payload, func(out io.Writer) error {
		c, err := storedChart(step, result)
		if err != nil {
			return err
		}
		if c != nil {
			return reporting.WriteChart(helper, out, c)
		}
		pretty, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(pretty))
		return err
	})
}

// storedChart rebuilds the chart of a chart producing step, or returns nil.
func storedChart(step string, result json.RawMessage) (chart.Chart, error) {
	switch step {
	case analysis.StepRainbow:
		var a services.RainbowAnalysis
		if err := json.Unmarshal(result, &a); err != nil {
			return nil, err
		}
		return transform.RainbowChart(a), nil
	case analysis.StepLawsuitCharts, analysis.StepOrderCharts:
		var d services.ChartData
		if err := json.Unmarshal(result, &d); err != nil {
			return nil, err
		}
		kind := services.Lawsuit
		if step == analysis.StepOrderCharts {
			kind = services.Order
		}
		return transform.TermsChart(kind, d), nil
	case analysis.StepDocumentCharts:
		var d services.ChartData
		if err := json.Unmarshal(result, &d); err != nil {
			return nil, err
		}
		return transform.DocumentsChart(d), nil
	}
	return nil, nil
}

func newAnalysisCmd() *analysisCmd {
	rv := &analysisCmd{Command: &cobra.Command{
		Use:       "analysis [STEP]",
		Short:     analysisShort,
		Long:      analysisLong,
		Example:   analysisExample,
		ValidArgs: analysis.StepNames,
	}}
	rv.RunE = rv.runE
	return rv
}
