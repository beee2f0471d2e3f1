package get

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const stagesFlagName = "stages"

var (
	termsLong = normalizers.LongDesc(i18n.T("root.verbs.get.termsLong",
		`Without arguments the deadline checks of the production are drawn as stacked bars,
one per check. Give a check name to list its cases, optionally narrowed to one
monitoring status (timely, overdue, upcoming, no_data, or for exceptionStatus
one of reopened, complaint_filed, error_dublicate, withdraw_by_the_initiator).
Without a status the cases of every status are listed together.
Use --stages to list the stage and status assigned to every case.`))
	termsExample = normalizers.Examples(i18n.T("root.verbs.get.termsExample",
		fmt.Sprintf(`
	# Show the lawsuit checks
	%[1]s get lawsuit
	# List overdue cases of a check
	%[1]s get lawsuit decision45days overdue
	# List the stage assignment of court order cases
	%[1]s get order --stages
	`, meta.CLIName)))
)

type termsCmd struct {
	*cobra.Command
	kind services.Kind
}

func (c *termsCmd) validate(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) > 2 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("expected at most a check and a status")}
	}
	stages, err := c.Flags().GetBool(stagesFlagName)
	if err != nil {
		return err
	}
	if stages && len(args) > 0 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("--%s does not take arguments", stagesFlagName)}
	}
	if len(args) > 0 {
		check, ok := transform.FindCheck(c.kind, args[0])
		if !ok {
			names := make([]string, 0)
			for _, chk := range transform.Checks(c.kind) {
				names = append(names, chk.Name)
			}
			return &cmd.ConfigurationError{
				Err: fmt.Errorf("unknown %s check %q, must be one of %s", c.kind, args[0], strings.Join(names, ", ")),
			}
		}
		if len(args) == 2 && !slices.Contains(check.Statuses(), args[1]) {
			return &cmd.ConfigurationError{
				Err: fmt.Errorf("unknown status %q for %s, must be one of %s",
					args[1], check.Name, strings.Join(check.Statuses(), ", ")),
			}
		}
	}
	return nil
}

// checkCases lists the cases of check with status, or with every status of
// the check when status is empty.
func checkCases(
	ctx context.Context,
	svc *services.Services,
	kind services.Kind,
	check transform.Check,
	status string,
) (services.FilteredCases, error) {
	if status != "" {
		return svc.Terms.FilteredCases(ctx, kind, check.Name, status)
	}
	all := services.FilteredCases{Stage: check.Name, Cases: []services.CaseSummary{}}
	for _, st := range check.Statuses() {
		res, err := svc.Terms.FilteredCases(ctx, kind, check.Name, st)
		if err != nil {
			return all, err
		}
		all.Cases = append(all.Cases, res.Cases...)
	}
	all.Count = len(all.Cases)
	return all, nil
}

func (c *termsCmd) runE(cobraCmd *cobra.Command, args []string) error {
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

	stages, _ := c.Flags().GetBool(stagesFlagName)
	switch {
	case stages:
		analysis, err := svc.Terms.Analyze(ctx, c.kind)
		if err != nil {
			return reporting.ServiceError(helper, "analyze "+string(c.kind)+" production", err)
		}
		presets, err := helper.GetPresets()
		if err != nil {
			return err
		}
		tbl := reporting.NewTable(helper, presets.StageRowColumns(), presets.Get(transform.PresetStageRows), analysis.Data)
		save, err := reporting.SaveOption[services.StageRow](helper, string(c.kind)+"-stages")
		if err != nil {
			return err
		}
		return tableview.RenderForFormat(helper, outType, printer, tbl, analysis,
			tableview.WithTitle[services.StageRow](fmt.Sprintf("%s: %d", transform.KindTitle(c.kind), analysis.TotalCases)),
			tableview.WithDetail(reporting.CaseDetail(svc, reporting.Locale(helper),
				func(r services.StageRow) string { return r.CaseCode })),
			save,
		)

	case len(args) > 0:
		check, _ := transform.FindCheck(c.kind, args[0])
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		cases, err := checkCases(ctx, svc, c.kind, check, status)
		if err != nil {
			return reporting.ServiceError(helper, "list cases of "+check.Name, err)
		}
		title := check.Title
		if status != "" {
			title += " / " + transform.StatusLabel(status)
		}
		return renderCases(helper, outType, printer, svc, cases.Cases, cases,
			transform.PresetStageCases, fmt.Sprintf("%s: %d", title, cases.Count))

	default:
		data, err := svc.Terms.Charts(ctx, c.kind)
		if err != nil {
			return reporting.ServiceError(helper, "load "+string(c.kind)+" charts", err)
		}
		return reporting.Print(helper, outType, printer, data, func(out io.Writer) error {
			return reporting.WriteChart(helper, out, transform.TermsChart(c.kind, data))
		})
	}
}

func newTermsCmd(kind services.Kind) *termsCmd {
	rv := &termsCmd{
		kind: kind,
		Command: &cobra.Command{
			Use: string(kind) + " [CHECK [STATUS]]",
			Short: i18n.T("root.verbs.get."+string(kind)+"Short",
				fmt.Sprintf("Show %s production deadline checks", kind)),
			Long:    termsLong,
			Example: termsExample,
		},
	}
	rv.Flags().Bool(stagesFlagName, false, "List the stage and monitoring status of every case.")
	rv.RunE = rv.runE
	return rv
}
