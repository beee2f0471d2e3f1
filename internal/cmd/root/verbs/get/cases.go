package get

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/render"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	filterFlagName = "filter"
	// caseCodeColumn is the report header of the case code.
	caseCodeColumn = "Код дела"
)

var (
	caseShort = i18n.T("root.verbs.get.caseShort", "Show the card of a case")
	caseLong  = normalizers.LongDesc(i18n.T("root.verbs.get.caseLong",
		`Show every known field of a case, grouped into general, court, financial and
date sections. The case is looked up in all code columns of the detailed report.`))
	caseExample = normalizers.Examples(i18n.T("root.verbs.get.caseExample",
		fmt.Sprintf(`
	# Show a case card
	%[1]s get case 12345
	`, meta.CLIName)))

	casesShort = i18n.T("root.verbs.get.casesShort", "Filter the colored detailed report")
	casesLong  = normalizers.LongDesc(i18n.T("root.verbs.get.casesLong",
		`Apply server side filters to the colored detailed report. Filter names are
listed by "get filters"; their values by "get filter-options".`))
	casesExample = normalizers.Examples(i18n.T("root.verbs.get.casesExample",
		fmt.Sprintf(`
	# List the cases of one GOSB and executor
	%[1]s get cases --filter gosb="Московский" --filter responsibleExecutor="Иванов И.И."
	`, meta.CLIName)))
)

type caseCmd struct {
	*cobra.Command
}

func (c *caseCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	svc, err := helper.GetServices()
	if err != nil {
		return err
	}
	detail, err := svc.Cases.Get(helper.GetContext(), strings.TrimSpace(args[0]))
	if err != nil {
		return reporting.ServiceError(helper, "load case "+args[0], err)
	}
	layout := table.DateLayout(reporting.Locale(helper))
	return reporting.Print(helper, outType, printer, detail, func(out io.Writer) error {
		return reporting.WriteMarkdown(helper, out, render.CaseMarkdown(detail, layout))
	})
}

func newCaseCmd() *caseCmd {
	rv := &caseCmd{Command: &cobra.Command{
		Use:     "case CASE_CODE",
		Short:   caseShort,
		Long:    caseLong,
		Example: caseExample,
		Args:    reporting.ExactArgs(1, "a case code"),
	}}
	rv.RunE = rv.runE
	return rv
}

type casesCmd struct {
	*cobra.Command
}

func (c *casesCmd) validate(helper cmd.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("the cases command does not accept arguments")}
	}
	return nil
}

func (c *casesCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	filters, err := c.Flags().GetStringToString(filterFlagName)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	res, err := svc.Filters.Apply(helper.GetContext(), filters)
	if err != nil {
		return reporting.ServiceError(helper, "apply filters", err)
	}

	presets, err := helper.GetPresets()
	if err != nil {
		return err
	}
	tbl := reporting.NewTable(helper,
		presets.RecordColumns(transform.PresetFiltered, res.Data),
		presets.Get(transform.PresetFiltered), res.Data)
	save, err := reporting.SaveOption[services.Record](helper, transform.PresetFiltered)
	if err != nil {
		return err
	}
	return tableview.RenderForFormat(helper, outType, printer, tbl, res,
		tableview.WithTitle[services.Record](fmt.Sprintf("Дела: %d", res.Total)),
		tableview.WithDetail(reporting.CaseDetail(svc, reporting.Locale(helper), recordCaseCode)),
		save,
	)
}

func recordCaseCode(r services.Record) string {
	v, ok := r[caseCodeColumn]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func newCasesCmd() *casesCmd {
	rv := &casesCmd{Command: &cobra.Command{
		Use:     "cases",
		Short:   casesShort,
		Long:    casesLong,
		Example: casesExample,
	}}
	rv.Flags().StringToString(filterFlagName, nil, "Filter as name=value. May be repeated.")
	rv.RunE = rv.runE
	return rv
}
