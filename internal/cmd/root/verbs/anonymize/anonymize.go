package anonymize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/export"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/util"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.Anonymize

	rulesFlagName       = "rules"
	useDefaultsFlagName = "use-defaults"
	dirFlagName         = "dir"
)

var (
	anonymizeUse = Verb.String()

	anonymizeShort = i18n.T("root.verbs.anonymize.anonymizeShort", "Depersonalize report spreadsheets")

	anonymizeLong = normalizers.LongDesc(i18n.T("root.verbs.anonymize.anonymizeLong",
		`Depersonalize a report on the backend: load the workbook, run the rules
over it and download the result. TYPE is detailed or documents.

Rules are a JSON or YAML file; without one the backend's default rules are
applied. The temporary data kept by the backend is removed with clear.`))

	anonymizeExamples = normalizers.Examples(i18n.T("root.verbs.anonymize.anonymizeExamples",
		fmt.Sprintf(`
		# Depersonalize the detailed report with the default rules
		%[1]s anonymize load detailed ./detailed.xlsx
		%[1]s anonymize run detailed
		%[1]s anonymize download detailed
		# Use custom rules on top of the defaults
		%[1]s anonymize run documents --rules rules.yaml
		# Show the default rules
		%[1]s anonymize rules
		`, meta.CLIName)))
)

// reportTypes maps the accepted names to the backend report types.
var reportTypes = map[string]string{
	"detailed":         "detailed_report",
	"detailed_report":  "detailed_report",
	"documents":        "documents_report",
	"documents_report": "documents_report",
}

func parseReportType(s string) (string, error) {
	if rt, ok := reportTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return rt, nil
	}
	return "", &cmdpkg.ConfigurationError{
		Err: fmt.Errorf("unknown report type %q (expected detailed or documents)", s),
	}
}

func NewAnonymizeCmd() (*cobra.Command, error) {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:     anonymizeUse,
		Short:   anonymizeShort,
		Long:    anonymizeLong,
		Example: anonymizeExamples,
		Aliases: []string{"anon", "depersonalize"},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), verbs.Verb, Verb))
			cmdpkg.SetAutoApprove(c, autoApprove)
		},
	}
	cmd.PersistentFlags().BoolVarP(&autoApprove, cmdpkg.YesFlagName, "y", false,
		"Skip confirmation prompts (not configurable)")

	cmd.AddCommand(newLoadCmd(), newRunCmd(), newDownloadCmd(), newRulesCmd(), newClearCmd())
	return cmd, nil
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load TYPE PATH",
		Short: i18n.T("root.verbs.anonymize.loadShort", "Load a report for depersonalization"),
		Args:  reporting.ExactArgs(2, "TYPE and PATH"),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			rt, err := parseReportType(args[0])
			if err != nil {
				return err
			}
			path := util.ExpandHome(args[1])
			if err := export.ValidateUpload(path); err != nil {
				return &cmdpkg.ConfigurationError{Err: err}
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
			res, err := svc.Anonymizer.Load(helper.GetContext(), rt, path)
			if err != nil {
				return reporting.ServiceError(helper, "load the report", err)
			}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "%s: %d строк, %d столбцов\nПрименимых правил: %d из %d\n",
					res.Filename, res.Rows, res.Columns, res.ApplicableRulesCount, res.TotalRulesInConfig)
				return err
			})
		},
	}
}

func newRunCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run TYPE",
		Short: i18n.T("root.verbs.anonymize.runShort", "Apply the rules to a loaded report"),
		Args:  reporting.ExactArgs(1, "a report TYPE"),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			rt, err := parseReportType(args[0])
			if err != nil {
				return err
			}
			rulesPath, _ := c.Flags().GetString(rulesFlagName)
			useDefaults, _ := c.Flags().GetBool(useDefaultsFlagName)
			if rulesPath == "" && !useDefaults {
				return &cmdpkg.ConfigurationError{
					Err: fmt.Errorf("--%s is required when --%s=false", rulesFlagName, useDefaultsFlagName),
				}
			}
			rules, err := readRules(rulesPath)
			if err != nil {
				return &cmdpkg.ConfigurationError{Err: err}
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
			res, err := svc.Anonymizer.Run(helper.GetContext(), rt, rules, useDefaults)
			if err != nil {
				return reporting.ServiceError(helper, "depersonalize the report", err)
			}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "%s\nПравил применено: %d (%d строк, %d столбцов)\n",
					res.Message, res.TotalRulesApplied, res.Rows, res.Columns)
				return err
			})
		},
	}
	c.Flags().String(rulesFlagName, "", "JSON or YAML file with depersonalization rules.")
	c.Flags().Bool(useDefaultsFlagName, true, "Apply the backend's default rules as well.")
	return c
}

// readRules loads a rules file as JSON. YAML files are converted.
func readRules(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(util.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse rules %s: %w", filepath.Base(path), err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("convert rules %s: %w", filepath.Base(path), err)
		}
		return out, nil
	}
	if !json.Valid(data) {
		return nil, errors.New("rules file is not valid JSON")
	}
	return bytes.TrimSpace(data), nil
}

// DownloadResult describes a saved depersonalized report.
type DownloadResult struct {
	ReportType string `json:"report_type" yaml:"report_type"`
	Path       string `json:"path" yaml:"path"`
	Bytes      int    `json:"bytes" yaml:"bytes"`
}

func newDownloadCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "download TYPE",
		Short: i18n.T("root.verbs.anonymize.downloadShort", "Save the depersonalized report"),
		Args:  reporting.ExactArgs(1, "a report TYPE"),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			rt, err := parseReportType(args[0])
			if err != nil {
				return err
			}
			cfg, err := helper.GetConfig()
			if err != nil {
				return err
			}
			dir := cfg.GetString(common.ExportDirConfigPath)
			if f := c.Flags().Lookup(dirFlagName); f != nil && f.Changed {
				dir = f.Value.String()
			}
			name, err := export.Filename(cfg.GetString(common.ExportFilenameTemplatePath),
				export.FilenameData{Report: "anonymized-" + rt})
			if err != nil {
				return &cmdpkg.ConfigurationError{Err: err}
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
			blob, err := svc.Anonymizer.Download(helper.GetContext(), rt)
			if err != nil {
				return reporting.ServiceError(helper, "download the depersonalized report", err)
			}
			path, err := export.WriteBlob(dir, name, blob.Data)
			if err != nil {
				return cmdpkg.PrepareExecutionErrorWithHelper(helper, "failed to save the report", err)
			}
			res := DownloadResult{ReportType: rt, Path: path, Bytes: len(blob.Data)}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "Сохранено: %s\n", res.Path)
				return err
			})
		},
	}
	c.Flags().String(dirFlagName, "",
		fmt.Sprintf(`Directory to save the report in.
- Config path: [ %s ]`, common.ExportDirConfigPath))
	return c
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: i18n.T("root.verbs.anonymize.rulesShort", "Show the default depersonalization rules"),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			outType, printer, err := reporting.Printer(helper)
			if err != nil {
				return err
			}
			defer printer.Flush()

			svc, err := helper.GetServices()
			if err != nil {
				return err
			}
			res, err := svc.Anonymizer.Rules(helper.GetContext())
			if err != nil {
				return reporting.ServiceError(helper, "load the default rules", err)
			}
			var raw any
			if err := json.Unmarshal(res.Rules, &raw); err != nil {
				raw = nil
			}
			payload := map[string]any{"rules": raw, "total_rules": res.TotalRules, "note": res.Note}
			return reporting.Print(helper, outType, printer, payload, func(out io.Writer) error {
				var buf bytes.Buffer
				if err := json.Indent(&buf, res.Rules, "", "  "); err != nil {
					buf.Reset()
					buf.Write(res.Rules)
				}
				_, err := fmt.Fprintf(out, "%s\nПравил: %d\n", buf.String(), res.TotalRules)
				return err
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [TYPE]",
		Short: i18n.T("root.verbs.anonymize.clearShort", "Remove the backend's temporary depersonalization data"),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			rt, what := "", "all reports"
			if len(args) == 1 {
				var err error
				if rt, err = parseReportType(args[0]); err != nil {
					return err
				}
				what = rt
			}

			outType, printer, err := reporting.Printer(helper)
			if err != nil {
				return err
			}
			defer printer.Flush()

			if err := cmdpkg.Confirm(helper, "clear the depersonalization data of "+what); err != nil {
				return err
			}
			svc, err := helper.GetServices()
			if err != nil {
				return err
			}
			res, err := svc.Anonymizer.Clear(helper.GetContext(), rt)
			if err != nil {
				return reporting.ServiceError(helper, "clear the temporary data", err)
			}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "Очищено: %d\n", res.ClearedCount)
				return err
			})
		},
	}
}
