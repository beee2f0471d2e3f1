package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/export"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/util"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.Upload
)

var (
	uploadUse = Verb.String() + " TYPE PATH"

	uploadShort = i18n.T("root.verbs.upload.uploadShort", "Upload a report spreadsheet to the backend")

	uploadLong = normalizers.LongDesc(i18n.T("root.verbs.upload.uploadLong",
		`Upload an Excel report into one of the backend slots. TYPE is detailed,
documents or previous (or the backend slot name). Only .xlsx and .xls files
are accepted; .xlsx workbooks are opened locally first so a corrupt file is
rejected before it is sent.

Uploading replaces the slot's previous file and clears cached responses.`))

	uploadExamples = normalizers.Examples(i18n.T("root.verbs.upload.uploadExamples",
		fmt.Sprintf(`
		# Upload the current detailed report
		%[1]s upload detailed ~/reports/detailed.xlsx
		# Upload the documents report
		%[1]s upload documents ./documents.xlsx
		`, meta.CLIName)))
)

type uploadCmd struct {
	*cobra.Command
}

func (c *uploadCmd) validate(helper cmd.Helper) (services.FileType, string, error) {
	args := helper.GetArgs()
	ft, err := services.ParseFileType(args[0])
	if err != nil {
		return "", "", &cmd.ConfigurationError{Err: err}
	}
	path := util.ExpandHome(args[1])
	if err := export.ValidateUpload(path); err != nil {
		if errors.Is(err, export.ErrUnsupportedFile) || errors.Is(err, os.ErrNotExist) {
			return "", "", &cmd.ConfigurationError{Err: err}
		}
		return "", "", cmd.PrepareExecutionErrorWithHelper(helper, "the file cannot be uploaded", err)
	}
	return ft, path, nil
}

func (c *uploadCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)
	ft, path, err := c.validate(helper)
	if err != nil {
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
	res, err := svc.Files.Upload(helper.GetContext(), ft, path)
	if err != nil {
		return reporting.ServiceError(helper, "upload "+string(ft), err)
	}
	return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
		msg := res.Message
		if msg == "" {
			msg = "Файл загружен"
		}
		_, err := fmt.Fprintf(out, "%s: %s (%s)\n", msg, res.Filename, res.FileType)
		return err
	})
}

func NewUploadCmd() (*cobra.Command, error) {
	c := &uploadCmd{Command: &cobra.Command{
		Use:     uploadUse,
		Short:   uploadShort,
		Long:    uploadLong,
		Example: uploadExamples,
		Aliases: []string{"u", "U", "up"},
		Args:    reporting.ExactArgs(2, "TYPE and PATH"),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return []string{"detailed", "documents", "previous"}, cobra.ShellCompDirectiveNoFileComp
			}
			return []string{"xlsx", "xls"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}}
	c.RunE = c.runE
	return c.Command, nil
}
