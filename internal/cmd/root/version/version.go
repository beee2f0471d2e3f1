package version

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/util"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

const (
	ShowCommitFlagName   = "show-commit"
	ShowCommitConfigPath = "version." + ShowCommitFlagName

	CheckBackendFlagName = "check-backend"
)

var (
	versionUse   = "version"
	versionShort = i18n.T("root.version.versionShort",
		fmt.Sprintf("Print the %s version", meta.CLIName))
	versionLong = normalizers.LongDesc(i18n.T("root.version.versionLong",
		`The version command prints the client version. With --check-backend it
also reports whether the configured reporting backend answers.`))
	versionExample = normalizers.Examples(i18n.T("root.version.versionExamples",
		fmt.Sprintf(`
		# Print the simple version
		%[1]s version
		# Print the version and the git commit hash
		%[1]s version --show-commit
		# Check that the backend is reachable
		%[1]s version --check-backend
		`, meta.CLIName)))
)

// Result is printed for json and yaml output.
type Result struct {
	Version string   `json:"version"           yaml:"version"`
	Commit  string   `json:"commit,omitempty"  yaml:"commit,omitempty"`
	Date    string   `json:"date,omitempty"    yaml:"date,omitempty"`
	Backend *Backend `json:"backend,omitempty" yaml:"backend,omitempty"`
}

// Backend is the outcome of pinging the reporting backend.
type Backend struct {
	URL       string `json:"url"               yaml:"url"`
	Reachable bool   `json:"reachable"         yaml:"reachable"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Build a new instance of the version command
func NewVersionCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     versionUse,
		Short:   versionShort,
		Long:    versionLong,
		Example: versionExample,
		Args:    cobra.NoArgs,
		PreRun: func(c *cobra.Command, args []string) {
			bindFlags(c, args)
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper)
		},
	}

	rv.Flags().Bool(ShowCommitFlagName, false,
		i18n.T(fmt.Sprintf("root.%s", ShowCommitConfigPath),
			fmt.Sprintf("True to show the git commit hash when built.\n (config path = '%s')", ShowCommitConfigPath)))
	rv.Flags().Bool(CheckBackendFlagName, false,
		i18n.T("root.version.check-backend", "Also ping the reporting backend."))

	return rv
}

func bindFlags(c *cobra.Command, args []string) {
	helper := cmd.BuildHelper(c, args)
	cfg, e := helper.GetConfig()
	util.CheckError(e)
	f := c.Flags().Lookup(ShowCommitFlagName)
	err := cfg.BindFlag(ShowCommitConfigPath, f)
	util.CheckError(err)
}

func run(helper cmd.Helper) error {
	info, err := helper.GetBuildInfo()
	if err != nil {
		return err
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	result := Result{Version: info.Version}
	if cfg.GetBool(ShowCommitConfigPath) {
		result.Commit = info.Commit
		result.Date = info.Date
	}

	if check, _ := helper.GetCmd().Flags().GetBool(CheckBackendFlagName); check {
		result.Backend = ping(helper, cfg.GetString(common.BaseURLConfigPath))
	}

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	err = reporting.Print(helper, outType, printer, result, func(out io.Writer) error {
		return printText(result, out)
	})
	if err != nil {
		return err
	}
	if result.Backend != nil && !result.Backend.Reachable {
		return cmd.PrepareExecutionErrorMsg(helper, "the reporting backend is not reachable")
	}
	return nil
}

func ping(helper cmd.Helper, url string) *Backend {
	rv := &Backend{URL: url}
	svc, err := helper.GetServices()
	if err != nil {
		rv.Message = err.Error()
		return rv
	}
	st, err := svc.Files.Ping(helper.GetContext())
	if err != nil {
		rv.Message = err.Error()
		return rv
	}
	rv.Reachable = true
	rv.Message = st.Message
	return rv
}

// printText prints "version (commit)" on one line, then the backend state.
func printText(r Result, out io.Writer) error {
	line := r.Version
	if r.Commit != "" {
		line += fmt.Sprintf(" (%s)", r.Commit)
	}
	if _, err := fmt.Fprintln(out, line); err != nil {
		return err
	}
	if r.Backend == nil {
		return nil
	}
	state := "недоступен"
	if r.Backend.Reachable {
		state = "доступен"
	}
	_, err := fmt.Fprintf(out, "Сервер %s: %s", r.Backend.URL, state)
	if err == nil && r.Backend.Message != "" {
		_, err = fmt.Fprintf(out, " (%s)", r.Backend.Message)
	}
	if err == nil {
		_, err = fmt.Fprintln(out)
	}
	return err
}
