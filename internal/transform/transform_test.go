package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/legaldesk/casectl/internal/chart"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRainbowBars(t *testing.T) {
	bars := RainbowBars([]int{743, 23, 0, 211})
	require.Len(t, bars, len(RainbowColors))
	assert.Equal(t, chart.Bar{ID: "ik", Label: "ИК", Value: 743, Color: "#6D4C41"}, bars[0])
	assert.Equal(t, 0, bars[2].Value)
	assert.Equal(t, "white", bars[8].ID)
	assert.Equal(t, 0, bars[8].Value)

	c := RainbowChart(services.RainbowAnalysis{Data: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}})
	assert.Equal(t, RainbowChartName, c.Name)
	assert.Equal(t, 9, c.Bars[8].Value)
}

func TestLookupColor(t *testing.T) {
	c, ok := LookupColor("синий")
	require.True(t, ok)
	assert.Equal(t, "blue", c.Code)

	c, ok = LookupColor("PURPLE")
	require.True(t, ok)
	assert.Equal(t, "Лиловый", c.Name)

	_, ok = LookupColor("black")
	assert.False(t, ok)
}

func TestTermsChartOrdersByChecks(t *testing.T) {
	data := services.ChartData{
		TotalCases: 12,
		Data: []services.ChartGroup{
			{GroupName: "firstStatus14Days", Values: []int{1, 2, 0, 3}},
			{GroupName: ExceptionCheck, Values: []int{1, 0, 2, 0}},
			{GroupName: "closed90Days", Values: []int{4, 0, 0, 0}},
			{GroupName: "somethingNew", Values: []int{1, 1, 1, 1}},
		},
	}
	c := TermsChart(services.Order, data)

	names := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		names[i] = b.Name
	}
	assert.Equal(t, []string{ExceptionCheck, "closed90Days", "firstStatus14Days", "somethingNew"}, names)

	exc := c.Bars[0]
	assert.Equal(t, "Исключения", exc.Title)
	require.Len(t, exc.Segments, 4)
	assert.Equal(t, ExceptionComplaintFiled, exc.Segments[1].Name)
	assert.Equal(t, 3, exc.Total)

	first := c.Bars[2]
	assert.Equal(t, "Смена первого статуса: 14 дней", first.Title)
	require.Len(t, first.Segments, 3, "zero upcoming segment is dropped")
	assert.Equal(t, []string{StatusTimely, StatusOverdue, StatusNoData},
		[]string{first.Segments[0].Name, first.Segments[1].Name, first.Segments[2].Name})
	assert.Equal(t, "Нет данных", first.Segments[2].Label)
	assert.Equal(t, 6, first.Total)

	unknown := c.Bars[3]
	assert.Equal(t, "somethingNew", unknown.Title)
	assert.Len(t, unknown.Segments, 4)
}

func TestDocumentsChart(t *testing.T) {
	c := DocumentsChart(services.ChartData{
		TotalDocuments: 5,
		Data: []services.ChartGroup{
			{GroupName: "courtOrder", Values: []int{2, 3, 0, 0}},
		},
	})
	require.Len(t, c.Bars, 1)
	assert.Equal(t, "Судебный приказ", c.Bars[0].Title)
	assert.Equal(t, DocumentsChartName, c.Name)
}

func TestFindCheck(t *testing.T) {
	chk, ok := FindCheck(services.Lawsuit, "decision45days")
	require.True(t, ok)
	assert.Equal(t, "decisionMade", chk.Stage)

	_, ok = FindCheck(services.Order, "decision45days")
	assert.False(t, ok)
}

func TestCaseColumnsFollowPreset(t *testing.T) {
	ps := DefaultPresets()
	cols := ps.CaseColumns(PresetRainbowCases)
	require.NotEmpty(t, cols)
	assert.Equal(t, "caseCode", cols[0].Key)
	assert.Equal(t, "Код дела", cols[0].Title)

	row := services.CaseSummary{CaseCode: "A-1", CaseStage: "closed", MonitoringStatus: "overdue"}
	tbl := table.New(ps.CaseColumns(PresetStageCases))
	tbl.SetRows([]services.CaseSummary{row})
	stage, ok := tbl.Column("caseStage")
	require.True(t, ok)
	assert.Equal(t, "Закрыто", tbl.Cell(row, stage))
	status, ok := tbl.Column("monitoringStatus")
	require.True(t, ok)
	assert.Equal(t, "Просрочено", tbl.Cell(row, status))
}

func TestRecordColumns(t *testing.T) {
	rows := []services.Record{
		{"ГОСБ": "1", "Код дела": "A"},
		{"Код дела": "B", "Сумма": 10.5},
	}
	ps := DefaultPresets()
	cols := ps.RecordColumns(PresetFiltered, rows)

	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	assert.Equal(t, []string{"Код дела", "ГОСБ", "Сумма"}, keys)
	assert.Equal(t, 10.5, cols[2].Value(rows[1]))
	assert.Nil(t, cols[1].Value(rows[1]))
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  tasks:
    columns: [taskCode, taskText]
    titles:
      taskText: Что сделать
  custom:
    sort: -caseCode
`), 0o600))

	ps, err := LoadPresets(path)
	require.NoError(t, err)

	tasks := ps.Get(PresetTasks)
	assert.Equal(t, []string{"taskCode", "taskText"}, tasks.Columns)
	assert.Equal(t, "responsibleExecutor", tasks.Sort, "unset fields keep the built-in value")
	assert.Equal(t, []string{"taskText"}, tasks.Unsortable)

	cols := ps.TaskColumns()
	require.Len(t, cols, 2)
	assert.Equal(t, "Что сделать", cols[1].Title)
	assert.True(t, cols[1].Unsortable)

	assert.Equal(t, table.SortState{Key: "caseCode", Dir: table.SortDesc}, ps.Get("custom").InitialSort())

	missing, err := LoadPresets(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPresets(), missing)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("presets: [1"), 0o600))
	_, err = LoadPresets(bad)
	require.Error(t, err)
}

func TestCheckStatuses(t *testing.T) {
	regular, ok := FindCheck(services.Order, "closed90Days")
	require.True(t, ok)
	assert.Equal(t, []string{StatusTimely, StatusOverdue, StatusUpcoming, StatusNoData}, regular.Statuses())

	exceptions, ok := FindCheck(services.Lawsuit, ExceptionCheck)
	require.True(t, ok)
	assert.Equal(t, []string{
		ExceptionReopened, ExceptionComplaintFiled, ExceptionErrorDuplicate, ExceptionWithdrawn,
	}, exceptions.Statuses())
}
