package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/transform"
)

var groupTitles = map[string]string{
	"general":   "Общие сведения",
	"court":     "Судебное производство",
	"financial": "Финансы",
	"dates":     "Даты и сроки",
	"other":     "Прочее",
}

// CaseMarkdown lays out a case as one section per field group, each a two
// column table. Dates use layout (see table.Format); empty values are
// skipped.
func CaseMarkdown(c services.CaseDetail, layout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Дело %s\n\n", escape(c.CaseCode))
	if c.FoundInColumn != "" {
		fmt.Fprintf(&b, "_Найдено по столбцу «%s», полей: %d_\n\n", escape(c.FoundInColumn), c.TotalFields)
	}

	groups := slices.Clone(services.CaseGroups)
	for name := range c.FieldGroups {
		if !slices.Contains(groups, name) {
			groups = append(groups, name)
		}
	}

	for _, g := range groups {
		fields := c.FieldGroups[g]
		rows := make([][2]string, 0, len(fields))
		for _, f := range fields {
			if v := table.Format(f.Value, layout); v != "" {
				rows = append(rows, [2]string{f.Label, v})
			}
		}
		if len(rows) == 0 {
			continue
		}
		title := groupTitles[g]
		if title == "" {
			title = g
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		writeTable(&b, rows)
	}
	return b.String()
}

// TaskMarkdown describes a single task.
func TaskMarkdown(t services.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Задача %s\n\n", escape(t.TaskCode))
	if t.TaskText != "" {
		fmt.Fprintf(&b, "%s\n\n", t.TaskText)
	}
	done := "нет"
	if t.IsCompleted {
		done = "да"
	}
	writeTable(&b, [][2]string{
		{"Код дела", t.CaseCode},
		{"Ответственный исполнитель", t.ResponsibleExecutor},
		{"Источник", t.SourceType},
		{"Этап", transform.StageTitle(t.CaseStage)},
		{"Статус мониторинга", transform.StatusLabel(t.MonitoringStatus)},
		{"Выполнена", done},
	})
	return b.String()
}

// RecordMarkdown renders a free-form record, such as a document, with keys
// in alphabetical order.
func RecordMarkdown(title string, r services.Record, layout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][2]string, 0, len(keys))
	for _, k := range keys {
		if v := table.Format(r[k], layout); v != "" {
			rows = append(rows, [2]string{k, v})
		}
	}
	writeTable(&b, rows)
	return b.String()
}

func writeTable(b *strings.Builder, rows [][2]string) {
	if len(rows) == 0 {
		b.WriteString("_Нет данных_\n\n")
		return
	}
	b.WriteString("| Поле | Значение |\n|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", cell(r[0]), cell(r[1]))
	}
	b.WriteString("\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(escape(s), "|", `\|`)
}

func escape(s string) string {
	return strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`").Replace(s)
}
