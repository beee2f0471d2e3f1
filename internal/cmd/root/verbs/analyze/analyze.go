package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/analysis"
	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/theme"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	Verb = verbs.Analyze
)

var (
	analyzeUse = Verb.String()

	analyzeShort = i18n.T("root.verbs.analyze.analyzeShort", "Run the full analysis on the uploaded reports")

	analyzeLong = normalizers.LongDesc(i18n.T("root.verbs.analyze.analyzeLong",
		fmt.Sprintf(`Run every analysis step in order: %s.

A failing step is reported and the run moves on to the next one. Every
result is stored locally so get analysis can show it later. Cancelling
(q or Ctrl+C) lets the running request finish, discards its result and
starts no further steps.

The command exits with an error when a step failed or the run was
cancelled.`, strings.Join(analysis.StepNames, ", "))))

	analyzeExamples = normalizers.Examples(i18n.T("root.verbs.analyze.analyzeExamples",
		fmt.Sprintf(`
		# Run the analysis
		%[1]s analyze
		# Run it from a script and keep the snapshot
		%[1]s analyze -o json > snapshot.json
		`, meta.CLIName)))
)

type analyzeCmd struct {
	*cobra.Command
}

func (c *analyzeCmd) runE(cobraCmd *cobra.Command, args []string) error {
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

	status, err := svc.Files.Status(helper.GetContext())
	if err != nil {
		return reporting.ServiceError(helper, "check the uploaded reports", err)
	}
	if !status.ReadyForAnalysis {
		return cmd.PrepareExecutionErrorMsg(helper,
			"the reports required for analysis are not uploaded, see get files")
	}

	st, err := helper.OpenStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := helper.GetLogger()
	streams := helper.GetStreams()
	interactive := helper.IsInteractive()

	var program *tea.Program
	listener := lineListener(streams.ErrOut)
	if interactive {
		listener = func(e analysis.Event) {
			if program != nil {
				program.Send(eventMsg(e))
			}
		}
	}

	orch := analysis.New(analysis.DefaultSteps(svc),
		analysis.WithRecorder(st),
		analysis.WithInvalidator(svc.Cache()),
		analysis.WithLogger(logger),
		analysis.WithListener(listener),
	)

	// an interrupt stops further steps; the run context outlives it so the
	// final snapshot is still stored
	ctx := helper.GetContext()
	runCtx := context.WithoutCancel(ctx)
	stop := context.AfterFunc(ctx, orch.Cancel)
	defer stop()

	var snap analysis.Snapshot
	if interactive {
		model := newProgressModel(orch.Steps(), theme.FromContext(ctx), func() tea.Msg {
			s, err := orch.Run(runCtx)
			return doneMsg{snap: s, err: err}
		}, orch.Cancel)
		program = tea.NewProgram(model,
			tea.WithInput(streams.In),
			tea.WithOutput(streams.Out),
		)
		if _, err := program.Run(); err != nil {
			orch.Cancel()
			return cmd.PrepareExecutionErrorWithHelper(helper, "analysis progress view failed", err)
		}
		if model.done == nil {
			return cmd.PrepareExecutionErrorMsg(helper, "analysis did not finish")
		}
		snap, err = model.done.snap, model.done.err
	} else {
		snap, err = orch.Run(runCtx)
	}
	if err != nil {
		if errors.Is(err, analysis.ErrRunning) {
			return cmd.PrepareExecutionErrorWithHelper(helper, "an analysis is already running", err)
		}
		return cmd.PrepareExecutionErrorWithHelper(helper, "analysis failed", err)
	}

	if err := reporting.Print(helper, outType, printer, snap, func(out io.Writer) error {
		return reporting.WriteSnapshot(out, snap)
	}); err != nil {
		return err
	}

	switch {
	case snap.Cancelled:
		return cmd.PrepareExecutionErrorMsg(helper, "analysis cancelled", "run_id", snap.RunID)
	case len(snap.Failed) > 0:
		return cmd.PrepareExecutionErrorMsg(helper,
			fmt.Sprintf("%d of %d analysis steps failed", len(snap.Failed), len(orch.Steps())),
			"run_id", snap.RunID)
	}
	return nil
}

func NewAnalyzeCmd() (*cobra.Command, error) {
	c := &analyzeCmd{Command: &cobra.Command{
		Use:     analyzeUse,
		Short:   analyzeShort,
		Long:    analyzeLong,
		Example: analyzeExamples,
		Aliases: []string{"a", "A", "run"},
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}}
	c.RunE = c.runE
	return c.Command, nil
}
