package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/profile"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

var (
	profileUse   = "profile"
	profileShort = i18n.T("root.profile.profileShort", "List CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`List the profiles defined in the configuration file with the backend
each one talks to. The active profile is marked with *.`))
)

type row struct {
	profile.Summary `yaml:",inline"`
	Active          bool `json:"active" yaml:"active"`
}

var columns = []table.Column[row]{
	{Key: "name", Title: "Профиль", Value: func(r row) any {
		if r.Active {
			return "*" + r.Name
		}
		return r.Name
	}},
	{Key: "base-url", Title: "Сервер", Value: func(r row) any { return r.BaseURL }},
	{Key: "timeout", Title: "Таймаут", Unsortable: true, Value: func(r row) any { return r.Timeout }},
	{Key: "storage", Title: "Хранилище", Unsortable: true, Value: func(r row) any { return r.StoragePath }},
}

func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse,
		Short:   profileShort,
		Long:    profileLong,
		Aliases: []string{"profiles"},
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper)
		},
	}
	return rv
}

func run(helper cmd.Helper) error {
	v, err := helper.GetVerb()
	if err != nil {
		return err
	}

	if v == verbs.Get {
		return runGet(helper)
	}

	return fmt.Errorf("command %s does not support %s", profileUse, v)
}

func runGet(helper cmd.Helper) error {
	mgr, ok := helper.GetContext().Value(profile.ProfileManagerKey).(profile.Manager)
	if !ok || mgr == nil {
		return &cmd.ConfigurationError{Err: fmt.Errorf("no profile manager configured")}
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	logger := helper.GetLogger()

	current := cfg.GetProfile()
	names := mgr.GetProfiles()
	rows := make([]row, 0, len(names))
	for _, name := range names {
		s, err := mgr.Describe(name)
		if err != nil {
			logger.Debug("skipping profile", "profile", name, "error", err)
			continue
		}
		rows = append(rows, row{Summary: s, Active: name == current})
	}

	tbl := reporting.NewTable(helper, columns, transform.Preset{}, rows)
	return tableview.RenderForFormat(helper, outType, printer, tbl, rows,
		tableview.WithTitle[row]("Профили"),
	)
}
