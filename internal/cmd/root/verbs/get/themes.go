package get

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/output/tableview"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/theme"
	"github.com/legaldesk/casectl/internal/transform"
	"github.com/legaldesk/casectl/internal/util/i18n"
)

var themesShort = i18n.T("root.verbs.get.themesShort", "List available color themes")

type themeRow struct {
	ID      string `json:"id"              yaml:"id"`
	Name    string `json:"name"            yaml:"name"`
	Active  bool   `json:"active"          yaml:"active"`
	Primary string `json:"primary"         yaml:"primary"`
	Accent  string `json:"accent"          yaml:"accent"`
	About   string `json:"about,omitempty" yaml:"about,omitempty"`
}

var themeColumns = []table.Column[themeRow]{
	{Key: "id", Title: "ID", Value: func(r themeRow) any {
		if r.Active {
			return "*" + r.ID
		}
		return r.ID
	}},
	{Key: "name", Title: "Название", Value: func(r themeRow) any { return r.Name }},
	{Key: "primary", Title: "Основной", Unsortable: true, Value: func(r themeRow) any { return r.Primary }},
	{Key: "accent", Title: "Акцент", Unsortable: true, Value: func(r themeRow) any { return r.Accent }},
}

// previewTokens are the colors listed when a theme row is opened.
var previewTokens = []theme.Token{
	theme.ColorPrimary,
	theme.ColorAccent,
	theme.ColorSuccess,
	theme.ColorWarning,
	theme.ColorDanger,
	theme.ColorTextPrimary,
	theme.ColorBorder,
}

func themeRows(active string) []themeRow {
	ids := theme.Available()
	rows := make([]themeRow, 0, len(ids))
	for _, id := range ids {
		p, ok := theme.Get(id)
		if !ok {
			continue
		}
		name := strings.TrimSpace(p.DisplayName)
		if name == "" {
			name = p.Name
		}
		rows = append(rows, themeRow{
			ID:      p.Name,
			Name:    name,
			Active:  strings.EqualFold(p.Name, active),
			Primary: p.Color(theme.ColorPrimary).Light,
			Accent:  p.Color(theme.ColorAccent).Light,
			About:   strings.TrimSpace(p.About),
		})
	}
	return rows
}

func themeDetail(_ context.Context, r themeRow) (string, error) {
	p, ok := theme.Get(r.ID)
	if !ok {
		return "", fmt.Errorf("unknown theme %q", r.ID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	if r.About != "" {
		fmt.Fprintf(&b, "%s\n\n", r.About)
	}
	b.WriteString("| Токен | Светлая | Темная |\n|---|---|---|\n")
	for _, t := range previewTokens {
		c := p.Color(t)
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t, c.Light, c.Dark)
	}
	return b.String(), nil
}

type themesCmd struct {
	*cobra.Command
}

func (c *themesCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)

	outType, printer, err := reporting.Printer(helper)
	if err != nil {
		return err
	}
	defer printer.Flush()

	rows := themeRows(theme.CurrentName())
	tbl := reporting.NewTable(helper, themeColumns, transform.Preset{}, rows)
	return tableview.RenderForFormat(helper, outType, printer, tbl, rows,
		tableview.WithTitle[themeRow]("Цветовые темы"),
		tableview.WithFooter[themeRow]("* активная тема"),
		tableview.WithDetail(themeDetail),
	)
}

func newThemesCmd() *themesCmd {
	rv := &themesCmd{Command: &cobra.Command{
		Use:   "themes",
		Short: themesShort,
		Args:  cobra.NoArgs,
	}}
	rv.RunE = rv.runE
	return rv
}
