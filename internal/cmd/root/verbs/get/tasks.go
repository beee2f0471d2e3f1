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
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	executorFlagName  = "executor"
	calculateFlagName = "calculate"
)

var (
	tasksShort = i18n.T("root.verbs.get.tasksShort", "List employee tasks")
	tasksLong  = normalizers.LongDesc(i18n.T("root.verbs.get.tasksLong",
		`List the tasks produced by the last analysis, optionally for one responsible
executor. --calculate recomputes the tasks on the server first. --status prints
which reports and analyses the task list is based on.`))
	tasksExample = normalizers.Examples(i18n.T("root.verbs.get.tasksExample",
		fmt.Sprintf(`
	# List all tasks
	%[1]s get tasks
	# Recalculate and list the tasks of one executor
	%[1]s get tasks --calculate --executor "Иванов И.И."
	`, meta.CLIName)))

	taskShort = i18n.T("root.verbs.get.taskShort", "Show a single task")
)

type tasksCmd struct {
	*cobra.Command
}

func (c *tasksCmd) validate(helper cmd.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmd.ConfigurationError{Err: fmt.Errorf("the tasks command does not accept arguments")}
	}
	status, _ := c.Flags().GetBool(statusFlagName)
	calculate, _ := c.Flags().GetBool(calculateFlagName)
	if status && calculate {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("--%s cannot be combined with --%s", statusFlagName, calculateFlagName),
		}
	}
	return nil
}

func (c *tasksCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	executor, _ := c.Flags().GetString(executorFlagName)

	if status, _ := c.Flags().GetBool(statusFlagName); status {
		st, err := svc.Tasks.Status(ctx)
		if err != nil {
			return reporting.ServiceError(helper, "load task status", err)
		}
		return reporting.Print(helper, outType, printer, st, func(out io.Writer) error {
			return writeTaskStatus(out, st)
		})
	}

	var (
		tasks []services.Task
		raw   any
		total int
	)
	if calculate, _ := c.Flags().GetBool(calculateFlagName); calculate {
		res, err := svc.Tasks.Calculate(ctx, executor)
		if err != nil {
			return reporting.ServiceError(helper, "calculate tasks", err)
		}
		tasks, raw, total = res.Data, res, res.FilteredTasks
	} else {
		res, err := svc.Tasks.List(ctx, executor)
		if err != nil {
			return reporting.ServiceError(helper, "list tasks", err)
		}
		tasks, raw, total = res.Tasks, res, res.FilteredCount
	}

	presets, err := helper.GetPresets()
	if err != nil {
		return err
	}
	tbl := reporting.NewTable(helper, presets.TaskColumns(), presets.Get(transform.PresetTasks), tasks)
	report := transform.PresetTasks
	if executor != "" {
		report += "-" + executor
	}
	save, err := reporting.SaveOption[services.Task](helper, report)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Задачи: %d", total)
	if executor != "" {
		title = fmt.Sprintf("Задачи (%s): %d", executor, total)
	}
	return tableview.RenderForFormat(helper, outType, printer, tbl, raw,
		tableview.WithTitle[services.Task](title),
		tableview.WithDetail(reporting.TaskDetail),
		save,
	)
}

func writeTaskStatus(out io.Writer, st services.TaskStatus) error {
	loaded := "нет"
	if st.Status.ReportsLoaded {
		loaded = "да"
	}
	if _, err := fmt.Fprintf(out, "Отчеты загружены: %s\nЗадач: %d\n", loaded, st.Status.TaskCount); err != nil {
		return err
	}
	keys := make([]string, 0, len(st.Status.ProcessedData))
	for k := range st.Status.ProcessedData {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		mark := "-"
		if st.Status.ProcessedData[k] {
			mark = "+"
		}
		if _, err := fmt.Fprintf(out, "  [%s] %s\n", mark, k); err != nil {
			return err
		}
	}
	return nil
}

func newTasksCmd() *tasksCmd {
	rv := &tasksCmd{Command: &cobra.Command{
		Use:     "tasks",
		Short:   tasksShort,
		Long:    tasksLong,
		Example: tasksExample,
	}}
	rv.Flags().String(executorFlagName, "", "Only list the tasks of this responsible executor.")
	rv.Flags().Bool(calculateFlagName, false, "Recalculate the tasks before listing them.")
	rv.Flags().Bool(statusFlagName, false, "Print the data the task list is based on.")
	rv.RunE = rv.runE
	return rv
}

type taskCmd struct {
	*cobra.Command
}

func (c *taskCmd) runE(cobraCmd *cobra.Command, args []string) error {
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
	lookup, err := svc.Tasks.Get(helper.GetContext(), args[0])
	if err != nil {
		return reporting.ServiceError(helper, "load task "+args[0], err)
	}
	if lookup.Task == nil {
		return cmd.PrepareExecutionErrorMsg(helper, fmt.Sprintf("task %s was not found", args[0]))
	}
	return reporting.Print(helper, outType, printer, lookup, func(out io.Writer) error {
		return reporting.WriteMarkdown(helper, out, render.TaskMarkdown(*lookup.Task))
	})
}

func newTaskCmd() *taskCmd {
	rv := &taskCmd{Command: &cobra.Command{
		Use:   "task TASK_CODE",
		Short: taskShort,
		Args:  reporting.ExactArgs(1, "a task code"),
	}}
	rv.RunE = rv.runE
	return rv
}
