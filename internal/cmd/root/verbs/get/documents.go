package get

import (
	"fmt"
	"io"
	"slices"

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
	statusFlagName       = "status"
	documentTypeFlagName = "type"
	statusesFlagName     = "statuses"
)

var (
	documentsShort = i18n.T("root.verbs.get.documentsShort", "Show document monitoring")
	documentsLong  = normalizers.LongDesc(i18n.T("root.verbs.get.documentsLong",
		`Without flags the document monitoring chart is drawn, one bar per document type.
--status and --type list the matching documents; --statuses prints the status
distribution of all documents.`))
	documentsExample = normalizers.Examples(i18n.T("root.verbs.get.documentsExample",
		fmt.Sprintf(`
	# Show the document chart
	%[1]s get documents
	# List overdue court decisions
	%[1]s get documents --status overdue --type courtDecision
	`, meta.CLIName)))

	documentShort = i18n.T("root.verbs.get.documentShort", "Show a single document")
)

type documentsCmd struct {
	*cobra.Command
}

func (c *documentsCmd) validate(helper cmd.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("the documents command does not accept arguments")}
	}
	statuses, _ := c.Flags().GetBool(statusesFlagName)
	if statuses && (c.Flags().Changed(statusFlagName) || c.Flags().Changed(documentTypeFlagName)) {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("--%s cannot be combined with --%s or --%s",
				statusesFlagName, statusFlagName, documentTypeFlagName),
		}
	}
	return nil
}

func (c *documentsCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	flags := c.Flags()

	if statuses, _ := flags.GetBool(statusesFlagName); statuses {
		dist, err := svc.Documents.Statuses(ctx)
		if err != nil {
			return reporting.ServiceError(helper, "load document statuses", err)
		}
		return reporting.Print(helper, outType, printer, dist, func(out io.Writer) error {
			return writeDistribution(out, dist)
		})
	}

	if flags.Changed(statusFlagName) || flags.Changed(documentTypeFlagName) {
		status, _ := flags.GetString(statusFlagName)
		docType, _ := flags.GetString(documentTypeFlagName)
		list, err := svc.Documents.Filter(ctx, status, docType)
		if err != nil {
			return reporting.ServiceError(helper, "filter documents", err)
		}
		presets, err := helper.GetPresets()
		if err != nil {
			return err
		}
		tbl := reporting.NewTable(helper,
			presets.RecordColumns(transform.PresetDocuments, list.Documents),
			presets.Get(transform.PresetDocuments), list.Documents)
		save, err := reporting.SaveOption[services.Record](helper, transform.PresetDocuments)
		if err != nil {
			return err
		}
		return tableview.RenderForFormat(helper, outType, printer, tbl, list,
			tableview.WithTitle[services.Record](fmt.Sprintf("Документы: %d", list.Count)),
			tableview.WithDetail(reporting.RecordDetail("Документ", reporting.Locale(helper))),
			save,
		)
	}

	data, err := svc.Documents.Charts(ctx)
	if err != nil {
		return reporting.ServiceError(helper, "load document charts", err)
	}
	return reporting.Print(helper, outType, printer, data, func(out io.Writer) error {
		return reporting.WriteChart(helper, out, transform.DocumentsChart(data))
	})
}

func writeDistribution(out io.Writer, dist services.DocumentStatuses) error {
	keys := make([]string, 0, len(dist.StatusDistribution))
	for k := range dist.StatusDistribution {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if _, err := fmt.Fprintf(out, "Всего документов: %d\n", dist.TotalDocuments); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(out, "  %s: %d\n", transform.StatusLabel(k), dist.StatusDistribution[k]); err != nil {
			return err
		}
	}
	return nil
}

func newDocumentsCmd() *documentsCmd {
	rv := &documentsCmd{Command: &cobra.Command{
		Use:     "documents",
		Short:   documentsShort,
		Long:    documentsLong,
		Example: documentsExample,
		Aliases: []string{"docs"},
	}}
	rv.Flags().String(statusFlagName, "", "Monitoring status of the documents to list.")
	rv.Flags().String(documentTypeFlagName, "",
		"Document type to list (executionDocument, courtDecision or courtOrder).")
	rv.Flags().Bool(statusesFlagName, false, "Print the status distribution of all documents.")
	rv.RunE = rv.runE
	return rv
}

type documentCmd struct {
	*cobra.Command
}

func (c *documentCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	doc, err := svc.Documents.Get(helper.GetContext(), args[0], args[1], args[2])
	if err != nil {
		return reporting.ServiceError(helper, "load document", err)
	}
	layout := table.DateLayout(reporting.Locale(helper))
	return reporting.Print(helper, outType, printer, doc, func(out io.Writer) error {
		title := fmt.Sprintf("Документ %s, дело %s", doc.DocumentType, doc.CaseCode)
		return reporting.WriteMarkdown(helper, out, render.RecordMarkdown(title, doc.Document, layout))
	})
}

func newDocumentCmd() *documentCmd {
	rv := &documentCmd{Command: &cobra.Command{
		Use:   "document CASE_CODE DOCUMENT_TYPE DEPARTMENT",
		Short: documentShort,
		Args:  reporting.ExactArgs(3, "a case code, a document type and a department"),
	}}
	rv.RunE = rv.runE
	return rv
}
