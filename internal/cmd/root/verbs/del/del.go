package del

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/store"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.Delete
)

var (
	deleteuse = Verb.String()

	deleteShort = i18n.T("root.verbs.delete.deleteShort", "Delete uploaded reports, analysis results or local data")

	deleteLong = normalizers.LongDesc(i18n.T("root.verbs.delete.deleteLong",
		`Use delete to remove data. Sub-commands choose what is removed: an
uploaded report on the backend, the backend analysis results, or the local
analysis store and response cache.

Every deletion asks for confirmation unless --yes is given.`))

	deleteExamples = normalizers.Examples(i18n.T("root.verbs.delete.deleteExamples",
		fmt.Sprintf(`
		# Remove the uploaded documents report
		%[1]s delete file documents
		# Drop every analysis result on the backend without a prompt
		%[1]s delete analysis --yes
		# Forget the locally stored analysis runs
		%[1]s delete cache
		`, meta.CLIName)))
)

func NewDeleteCmd() (*cobra.Command, error) {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:     deleteuse,
		Short:   deleteShort,
		Long:    deleteLong,
		Example: deleteExamples,
		Aliases: []string{"d", "D", "del", "rm", "DEL", "RM"},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c.SetContext(context.WithValue(ctx, verbs.Verb, Verb))
			cmdpkg.SetAutoApprove(c, autoApprove)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&autoApprove, cmdpkg.YesFlagName, "y", false,
		"Skip confirmation prompts (not configurable)")

	cmd.AddCommand(newFileCmd(), newAnalysisCmd(), newCacheCmd())
	return cmd, nil
}

func newFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "file TYPE",
		Short:     i18n.T("root.verbs.delete.fileShort", "Remove an uploaded report from the backend"),
		Aliases:   []string{"files", "report"},
		Args:      reporting.ExactArgs(1, "a file TYPE"),
		ValidArgs: []string{"detailed", "documents", "previous"},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			ft, err := services.ParseFileType(args[0])
			if err != nil {
				return &cmdpkg.ConfigurationError{Err: err}
			}

			outType, printer, err := reporting.Printer(helper)
			if err != nil {
				return err
			}
			defer printer.Flush()

			if err := cmdpkg.Confirm(helper, fmt.Sprintf("remove the uploaded %s", ft),
				"Analysis that depends on it will have to be run again."); err != nil {
				return err
			}
			svc, err := helper.GetServices()
			if err != nil {
				return err
			}
			res, err := svc.Files.Remove(helper.GetContext(), ft)
			if err != nil {
				return reporting.ServiceError(helper, "remove "+string(ft), err)
			}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				if !res.Removed {
					_, err := fmt.Fprintf(out, "%s was not loaded\n", ft)
					return err
				}
				_, err := fmt.Fprintf(out, "Removed %s\n", ft)
				return err
			})
		},
	}
}

func newAnalysisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analysis",
		Short: i18n.T("root.verbs.delete.analysisShort", "Drop every analysis result on the backend"),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			outType, printer, err := reporting.Printer(helper)
			if err != nil {
				return err
			}
			defer printer.Flush()

			if err := cmdpkg.Confirm(helper, "reset the analysis results on the backend",
				"Uploaded reports are kept."); err != nil {
				return err
			}
			svc, err := helper.GetServices()
			if err != nil {
				return err
			}
			res, err := svc.Files.ResetAnalysis(helper.GetContext())
			if err != nil {
				return reporting.ServiceError(helper, "reset the analysis", err)
			}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				if len(res.ClearedData) == 0 {
					_, err := fmt.Fprintln(out, "Nothing to clear")
					return err
				}
				_, err := fmt.Fprintf(out, "Cleared: %s\n", strings.Join(res.ClearedData, ", "))
				return err
			})
		},
	}
}

// CacheResult reports what delete cache removed.
type CacheResult struct {
	Store string `json:"store" yaml:"store"`
	Runs  int64  `json:"runs" yaml:"runs"`
	Steps int64  `json:"steps" yaml:"steps"`
}

func newCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "cache",
		Short:   i18n.T("root.verbs.delete.cacheShort", "Forget locally stored analysis runs and cached responses"),
		Aliases: []string{"store", "local"},
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
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

			stats, err := st.GetStats(ctx)
			if err != nil {
				return cmdpkg.PrepareExecutionErrorWithHelper(helper, "failed to read the local store", err)
			}
			if err := cmdpkg.Confirm(helper,
				fmt.Sprintf("delete %d stored analysis run(s) from %s", stats.Runs, st.Path())); err != nil {
				return err
			}
			if err := clearLocal(ctx, helper, st); err != nil {
				return err
			}
			res := CacheResult{Store: st.Path(), Runs: stats.Runs, Steps: stats.Steps}
			return reporting.Print(helper, outType, printer, res, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "Deleted %d run(s) and %d step result(s)\n", res.Runs, res.Steps)
				return err
			})
		},
	}
}

func clearLocal(ctx context.Context, helper cmdpkg.Helper, st *store.Store) error {
	if err := st.Clear(ctx); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "failed to clear the local store", err)
	}
	svc, err := helper.GetServices()
	if err != nil {
		return err
	}
	svc.Cache().Invalidate()
	helper.GetLogger().Info("local data cleared", "store", st.Path())
	return nil
}
