package get

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
)

var (
	filterOptionsShort = i18n.T("root.verbs.get.filterOptionsShort", "List the values of report filters")
	filtersShort       = i18n.T("root.verbs.get.filtersShort", "List the available report filters")
)

type filterOptionsCmd struct {
	*cobra.Command
}

func (c *filterOptionsCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	opts, err := svc.Filters.Options(helper.GetContext(), args...)
	if err != nil {
		return reporting.ServiceError(helper, "load filter options", err)
	}
	return reporting.Print(helper, outType, printer, opts, func(out io.Writer) error {
		names := make([]string, 0, len(opts))
		for k := range opts {
			names = append(names, k)
		}
		slices.Sort(names)
		for _, name := range names {
			labels := make([]string, len(opts[name]))
			for i, o := range opts[name] {
				labels[i] = o.Label
			}
			if _, err := fmt.Fprintf(out, "%s (%d): %s\n", name, len(labels), strings.Join(labels, ", ")); err != nil {
				return err
			}
		}
		return nil
	})
}

func newFilterOptionsCmd() *filterOptionsCmd {
	rv := &filterOptionsCmd{Command: &cobra.Command{
		Use:   "filter-options [FILTER...]",
		Short: filterOptionsShort,
	}}
	rv.RunE = rv.runE
	return rv
}

var filterMetaColumns = []table.Column[services.FilterMeta]{
	{Key: "name", Title: "Фильтр", Value: func(r services.FilterMeta) any { return r.Name }},
	{Key: "type", Title: "Тип", Value: func(r services.FilterMeta) any { return r.Type }},
	{Key: "column", Title: "Столбец отчета", Value: func(r services.FilterMeta) any { return r.Column }},
}

type filtersCmd struct {
	*cobra.Command
}

func (c *filtersCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	meta, err := svc.Filters.Metadata(helper.GetContext())
	if err != nil {
		return reporting.ServiceError(helper, "load filter metadata", err)
	}
	tbl := reporting.NewTable(helper, filterMetaColumns, transform.Preset{}, meta.Filters)
	return tableview.RenderForFormat(helper, outType, printer, tbl, meta,
		tableview.WithTitle[services.FilterMeta](fmt.Sprintf("Фильтры: %d", meta.TotalFilters)),
	)
}

func newFiltersCmd() *filtersCmd {
	rv := &filtersCmd{Command: &cobra.Command{
		Use:   "filters",
		Short: filtersShort,
		Args:  cobra.NoArgs,
	}}
	rv.RunE = rv.runE
	return rv
}
