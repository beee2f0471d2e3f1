package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	exportpkg "github.com/legaldesk/casectl/internal/export"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.Export

	dirFlagName      = "dir"
	onServerFlagName = "on-server"
)

var (
	exportUse = Verb.String() + " [REPORT]"

	exportShort = i18n.T("root.verbs.export.exportShort", "Download analysis reports as spreadsheets")

	exportLong = normalizers.LongDesc(i18n.T("root.verbs.export.exportLong",
		`Download a report produced by the backend and save it under the export
directory. The file name comes from the export.filename-template setting,
never from the server. all-analysis is a zip archive of every report.

Without a report name the available reports are listed.`))

	exportExamples = normalizers.Examples(i18n.T("root.verbs.export.exportExamples",
		fmt.Sprintf(`
		# List the reports
		%[1]s export
		# Save the rainbow analysis to the export directory
		%[1]s export rainbow-analysis
		# Save every report into ./out
		%[1]s export all-analysis --dir ./out
		# Let the backend write the task list into its own save folder
		%[1]s export tasks --on-server
		`, meta.CLIName)))
)

// Result describes a saved export.
type Result struct {
	Report string `json:"report" yaml:"report"`
	Path   string `json:"path" yaml:"path"`
	Bytes  int    `json:"bytes" yaml:"bytes"`
}

type exportCmd struct {
	*cobra.Command
}

func (c *exportCmd) validate(helper cmd.Helper) error {
	args := helper.GetArgs()
	if len(args) > 1 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("at most one report may be given")}
	}
	onServer, err := c.Flags().GetBool(onServerFlagName)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if onServer {
			return &cmd.ConfigurationError{Err: fmt.Errorf("--%s requires the tasks report", onServerFlagName)}
		}
		return nil
	}
	r, err := services.ParseReport(args[0])
	if err != nil {
		return &cmd.ConfigurationError{Err: fmt.Errorf("%w, must be one of %s", err, reportNames())}
	}
	if onServer && r != services.ReportTasks {
		return &cmd.ConfigurationError{Err: fmt.Errorf("--%s is only supported for %s", onServerFlagName, services.ReportTasks)}
	}
	return nil
}

func (c *exportCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	if len(args) == 0 {
		return reporting.Print(helper, outType, printer, services.Reports, writeReports)
	}

	svc, err := helper.GetServices()
	if err != nil {
		return err
	}
	report, _ := services.ParseReport(args[0])

	if onServer, _ := c.Flags().GetBool(onServerFlagName); onServer {
		res, err := svc.Tasks.SaveAll(helper.GetContext())
		if err != nil {
			return reporting.ServiceError(helper, "save the task list on the server", err)
		}
		return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
			_, err := fmt.Fprintf(out, "Задач сохранено: %d\n%s\n", res.TaskCount, res.Filepath)
			return err
		})
	}

	res, err := c.download(helper, svc, report)
	if err != nil {
		return err
	}
	helper.GetLogger().Info("export saved", "report", res.Report, "path", res.Path, "bytes", res.Bytes)
	return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
		_, err := fmt.Fprintf(out, "Сохранено: %s\n", res.Path)
		return err
	})
}

func (c *exportCmd) download(helper cmd.Helper, svc *services.Services, report services.Report) (Result, error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return Result{}, err
	}
	dir := cfg.GetString(common.ExportDirConfigPath)
	if f := c.Flags().Lookup(dirFlagName); f != nil && f.Changed {
		dir = f.Value.String()
	}

	name, err := exportpkg.Filename(cfg.GetString(common.ExportFilenameTemplatePath), exportpkg.FilenameData{
		Report: string(report),
		Ext:    report.Extension(),
	})
	if err != nil {
		return Result{}, &cmd.ConfigurationError{Err: err}
	}

	ctx := helper.GetContext()
	if ctx == nil {
		ctx = context.Background()
	}
	blob, err := svc.Exports.Download(ctx, report)
	if err != nil {
		return Result{}, reporting.ServiceError(helper, "download "+string(report), err)
	}
	helper.GetLogger().Debug("export downloaded", "report", report, "server_filename", blob.Filename)
	path, err := exportpkg.WriteBlob(dir, name, blob.Data)
	if err != nil {
		return Result{}, cmd.PrepareExecutionErrorWithHelper(helper, "failed to save "+string(report), err)
	}
	return Result{Report: string(report), Path: path, Bytes: len(blob.Data)}, nil
}

func writeReports(out io.Writer) error {
	for _, r := range services.Reports {
		if _, err := fmt.Fprintf(out, "%-20s %s\n", r, r.Extension()); err != nil {
			return err
		}
	}
	return nil
}

func reportNames() string {
	names := make([]string, len(services.Reports))
	for i, r := range services.Reports {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func NewExportCmd() (*cobra.Command, error) {
	c := &exportCmd{Command: &cobra.Command{
		Use:       exportUse,
		Short:     exportShort,
		Long:      exportLong,
		Example:   exportExamples,
		Aliases:   []string{"e", "E", "save"},
		ValidArgs: strings.Split(reportNames(), ", "),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}}
	c.Flags().String(dirFlagName, "",
		fmt.Sprintf(`Directory to save the report in.
- Config path: [ %s ]`, common.ExportDirConfigPath))
	c.Flags().Bool(onServerFlagName, false,
		"Ask the backend to save the task list in its own folder instead of downloading it.")
	c.RunE = c.runE
	return c.Command, nil
}
