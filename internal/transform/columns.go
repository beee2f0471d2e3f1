package transform

import (
	"slices"
	"strings"

	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/table"
)

// field is a column candidate. Presets pick and order fields by key.
type field[R any] struct {
	Key   string
	Title string
	Width int
	Value func(R) any
}

func columnsFor[R any](fields []field[R], p Preset) []table.Column[R] {
	byKey := make(map[string]field[R], len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
		order = append(order, f.Key)
	}
	if len(p.Columns) > 0 {
		order = p.Columns
	}

	cols := make([]table.Column[R], 0, len(order))
	for _, key := range order {
		f, ok := byKey[key]
		if !ok {
			continue
		}
		col := table.Column[R]{Key: f.Key, Title: f.Title, Width: f.Width, Value: f.Value}
		if t, ok := p.Titles[key]; ok && t != "" {
			col.Title = t
		}
		if w, ok := p.Widths[key]; ok && w > 0 {
			col.Width = w
		}
		if slices.Contains(p.Unsortable, key) {
			col.Unsortable = true
		}
		cols = append(cols, col)
	}
	return cols
}

var caseFields = []field[services.CaseSummary]{
	{"caseCode", "Код дела", 14, func(r services.CaseSummary) any { return r.CaseCode }},
	{"responsibleExecutor", "Ответственный исполнитель", 24, func(r services.CaseSummary) any { return r.ResponsibleExecutor }},
	{"gosb", "ГОСБ", 16, func(r services.CaseSummary) any { return r.Gosb }},
	{"currentPeriodColor", "Цвет (текущий период)", 12, func(r services.CaseSummary) any { return r.CurrentPeriodColor }},
	{"previousPeriodColor", "Цвет (предыдущий период)", 12, func(r services.CaseSummary) any { return r.PreviousPeriodColor }},
	{"courtProtectionMethod", "Способ судебной защиты", 20, func(r services.CaseSummary) any { return r.CourtProtectionMethod }},
	{"courtReviewingCase", "Суд, рассматривающий дело", 24, func(r services.CaseSummary) any { return r.CourtReviewingCase }},
	{"caseStatus", "Статус дела", 14, func(r services.CaseSummary) any { return r.CaseStatus }},
	{"filingDate", "Дата подачи", 12, func(r services.CaseSummary) any { return r.FilingDate }},
	{"caseCategory", "Категория дела", 16, func(r services.CaseSummary) any { return r.CaseCategory }},
	{"department", "Подразделение", 14, func(r services.CaseSummary) any { return r.Department }},
	{"caseStage", "Этап", 16, func(r services.CaseSummary) any { return StageTitle(r.CaseStage) }},
	{"monitoringStatus", "Статус мониторинга", 14, func(r services.CaseSummary) any { return StatusLabel(r.MonitoringStatus) }},
}

var stageRowFields = []field[services.StageRow]{
	{"caseCode", "Код дела", 14, func(r services.StageRow) any { return r.CaseCode }},
	{"caseStage", "Этап", 24, func(r services.StageRow) any { return StageTitle(r.CaseStage) }},
	{"monitoringStatus", "Статус мониторинга", 30, func(r services.StageRow) any { return r.MonitoringStatus }},
}

var taskFields = []field[services.Task]{
	{"taskCode", "Код задачи", 14, func(r services.Task) any { return r.TaskCode }},
	{"caseCode", "Код дела", 14, func(r services.Task) any { return r.CaseCode }},
	{"responsibleExecutor", "Ответственный исполнитель", 24, func(r services.Task) any { return r.ResponsibleExecutor }},
	{"sourceType", "Источник", 10, func(r services.Task) any { return r.SourceType }},
	{"caseStage", "Этап", 16, func(r services.Task) any { return StageTitle(r.CaseStage) }},
	{"monitoringStatus", "Статус мониторинга", 14, func(r services.Task) any { return StatusLabel(r.MonitoringStatus) }},
	{"isCompleted", "Выполнена", 9, func(r services.Task) any {
		if r.IsCompleted {
			return "да"
		}
		return "нет"
	}},
	{"taskText", "Задача", 48, func(r services.Task) any { return r.TaskText }},
}

// CaseColumns returns the case summary columns of the named preset.
func (ps Presets) CaseColumns(name string) []table.Column[services.CaseSummary] {
	return columnsFor(caseFields, ps.Get(name))
}

// StageRowColumns returns the columns of the stage assignment table.
func (ps Presets) StageRowColumns() []table.Column[services.StageRow] {
	return columnsFor(stageRowFields, ps.Get(PresetStageRows))
}

// TaskColumns returns the task table columns.
func (ps Presets) TaskColumns() []table.Column[services.Task] {
	return columnsFor(taskFields, ps.Get(PresetTasks))
}

// RecordColumns builds columns for free-form rows. Keys named by the preset
// come first in preset order, the rest follow alphabetically.
func (ps Presets) RecordColumns(name string, rows []services.Record) []table.Column[services.Record] {
	seen := map[string]bool{}
	var keys []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	p := ps.Get(name)
	fields := make([]field[services.Record], 0, len(keys))
	for _, k := range keys {
		fields = append(fields, field[services.Record]{
			Key:   k,
			Title: k,
			Value: func(r services.Record) any { return r[k] },
		})
	}
	if len(p.Columns) > 0 {
		order := slices.Clone(p.Columns)
		for _, k := range keys {
			if !slices.Contains(order, k) {
				order = append(order, k)
			}
		}
		p.Columns = order
	}
	return columnsFor(fields, p)
}
