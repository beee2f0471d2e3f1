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
	filesShort         = i18n.T("root.verbs.get.filesShort", "Show which reports are uploaded")
	processedDataShort = i18n.T("root.verbs.get.processedDataShort", "Show which processed data is available")
	testDataShort      = i18n.T("root.verbs.get.testDataShort", "Show a sample of the uploaded detailed report")
)

type fileRow struct {
	Slot   string
	Loaded bool
	Exists bool
	Path   string
}

var fileColumns = []table.Column[fileRow]{
	{Key: "slot", Title: "Отчет", Value: func(r fileRow) any { return r.Slot }},
	{Key: "loaded", Title: "Загружен", Value: func(r fileRow) any { return yesNo(r.Loaded) }},
	{Key: "exists", Title: "Файл на сервере", Value: func(r fileRow) any { return yesNo(r.Exists) }},
	{Key: "path", Title: "Путь", Unsortable: true, Value: func(r fileRow) any { return r.Path }},
}

func yesNo(b bool) string {
	if b {
		return "да"
	}
	return "нет"
}

// fileRows lists the known slots in order, then any slot the client does
// not know.
func fileRows(st services.FilesStatus) []fileRow {
	rows := make([]fileRow, 0, len(st.Files))
	for _, ft := range services.FileTypes {
		if s, ok := st.Files[ft]; ok {
			rows = append(rows, fileRow{Slot: string(ft), Loaded: s.Loaded, Exists: s.Exists, Path: s.Filepath})
		}
	}
	var extra []string
	for ft := range st.Files {
		if !slices.Contains(services.FileTypes, ft) {
			extra = append(extra, string(ft))
		}
	}
	slices.Sort(extra)
	for _, ft := range extra {
		s := st.Files[services.FileType(ft)]
		rows = append(rows, fileRow{Slot: ft, Loaded: s.Loaded, Exists: s.Exists, Path: s.Filepath})
	}
	return rows
}

type filesCmd struct {
	*cobra.Command
}

func (c *filesCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	st, err := svc.Files.Status(helper.GetContext())
	if err != nil {
		return reporting.ServiceError(helper, "load file status", err)
	}

	tbl := reporting.NewTable(helper, fileColumns, transform.Preset{}, fileRows(st))
	footer := "Анализ можно запускать: " + yesNo(st.ReadyForAnalysis)
	return tableview.RenderForFormat(helper, outType, printer, tbl, st,
		tableview.WithTitle[fileRow]("Загруженные отчеты"),
		tableview.WithFooter[fileRow](footer),
	)
}

func newFilesCmd() *filesCmd {
	rv := &filesCmd{Command: &cobra.Command{
		Use:     "files",
		Short:   filesShort,
		Aliases: []string{"files-status"},
		Args:    cobra.NoArgs,
	}}
	rv.RunE = rv.runE
	return rv
}

type processedDataCmd struct {
	*cobra.Command
}

func (c *processedDataCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	avail, err := svc.Files.Available(helper.GetContext())
	if err != nil {
		return reporting.ServiceError(helper, "load processed data status", err)
	}
	return reporting.Print(helper, outType, printer, avail, func(out io.Writer) error {
		keys := make([]string, 0, len(avail.Status))
		for k := range avail.Status {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			st := avail.Status[k]
			line := fmt.Sprintf("%-24s %s", k, yesNo(st.Loaded))
			if st.Loaded {
				line += fmt.Sprintf(" (%d строк)", st.RowCount)
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	})
}

func newProcessedDataCmd() *processedDataCmd {
	rv := &processedDataCmd{Command: &cobra.Command{
		Use:   "processed-data",
		Short: processedDataShort,
		Args:  cobra.NoArgs,
	}}
	rv.RunE = rv.runE
	return rv
}

type testDataCmd struct {
	*cobra.Command
}

func (c *testDataCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	data, err := svc.Files.TestData(helper.GetContext())
	if err != nil {
		return reporting.ServiceError(helper, "load test data", err)
	}
	return reporting.Print(helper, outType, printer, data, func(out io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "Статус: %s\n", data.Status)
		if len(data.Shape) == 2 {
			fmt.Fprintf(&b, "Размер: %d строк, %d столбцов\n", data.Shape[0], data.Shape[1])
		}
		if len(data.TargetColumns) > 0 {
			keys := make([]string, 0, len(data.TargetColumns))
			for k := range data.TargetColumns {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			b.WriteString("Целевые столбцы:\n")
			for _, k := range keys {
				fmt.Fprintf(&b, "  %s: %s\n", k, data.TargetColumns[k])
			}
		}
		_, err := io.WriteString(out, b.String())
		return err
	})
}

func newTestDataCmd() *testDataCmd {
	rv := &testDataCmd{Command: &cobra.Command{
		Use:   "test-data",
		Short: testDataShort,
		Args:  cobra.NoArgs,
	}}
	rv.RunE = rv.runE
	return rv
}
