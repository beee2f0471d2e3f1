package transform

import (
	"fmt"
	"slices"

	"github.com/legaldesk/casectl/internal/chart"
	"github.com/legaldesk/casectl/internal/reporting/services"
)

// Monitoring statuses reported for every regular check.
const (
	StatusTimely   = "timely"
	StatusOverdue  = "overdue"
	StatusUpcoming = "upcoming"
	StatusNoData   = "no_data"
)

// Exception check and its statuses.
const (
	ExceptionCheck = "exceptionStatus"

	ExceptionReopened       = "reopened"
	ExceptionComplaintFiled = "complaint_filed"
	ExceptionErrorDuplicate = "error_dublicate"
	ExceptionWithdrawn      = "withdraw_by_the_initiator"
)

// DocumentsChartName identifies the documents chart in selections.
const DocumentsChartName = "documents"

type segmentKind struct {
	Name  string
	Label string
	Color string
}

// statusSegments is the order of ChartGroup.Values for regular checks.
var statusSegments = []segmentKind{
	{StatusTimely, "В срок", "#43A047"},
	{StatusOverdue, "Просрочено", "#E53935"},
	{StatusUpcoming, "Приближается срок", "#FB8C00"},
	{StatusNoData, "Нет данных", "#9E9E9E"},
}

var exceptionSegments = []segmentKind{
	{ExceptionReopened, "Переоткрыто", "#1E88E5"},
	{ExceptionComplaintFiled, "Подана жалоба", "#8E24AA"},
	{ExceptionErrorDuplicate, "Ошибка/дубликат", "#6D4C41"},
	{ExceptionWithdrawn, "Отозвано инициатором", "#FDD835"},
}

// StatusLabel returns the display label of a status or exception kind.
func StatusLabel(status string) string {
	for _, s := range slices.Concat(statusSegments, exceptionSegments) {
		if s.Name == status {
			return s.Label
		}
	}
	return status
}

// Check is one deadline check inside a case stage.
type Check struct {
	Name  string
	Stage string
	Title string
}

// Statuses lists the monitoring statuses the backend reports for the check.
func (c Check) Statuses() []string {
	segments := statusSegments
	if c.Name == ExceptionCheck {
		segments = exceptionSegments
	}
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.Name)
	}
	return out
}

var stageTitles = map[string]string{
	"exceptions":                "Исключения",
	"underConsideration":        "На рассмотрении",
	"decisionMade":              "Решение вынесено",
	"courtReaction":             "Реакция суда",
	"firstStatusChanged":        "Смена первого статуса",
	"closed":                    "Закрыто",
	"executionDocumentReceived": "Получен исполнительный документ",
}

var lawsuitChecks = []Check{
	{ExceptionCheck, "exceptions", "Исключения"},
	{"nextHearing3days", "underConsideration", "Следующее заседание: 3 дня"},
	{"hearingInterval2days", "underConsideration", "Интервал заседаний: 2 дня"},
	{"consideration60days", "underConsideration", "Рассмотрение: 60 дней"},
	{"decision45days", "decisionMade", "Решение: 45 дней"},
	{"decisionReceipt3days", "decisionMade", "Получение решения: 3 дня"},
	{"decisionTransfer1day", "decisionMade", "Передача решения: 1 день"},
	{"courtReaction7days", "courtReaction", "Реакция суда: 7 дней"},
	{"firstStatusChanged14days", "firstStatusChanged", "Смена первого статуса: 14 дней"},
	{"closed125days", "closed", "Закрытие: 125 дней"},
	{"executionDocumentReceivedL", "executionDocumentReceived", "Получение исполнительного документа"},
}

var orderChecks = []Check{
	{ExceptionCheck, "exceptions", "Исключения"},
	{"closed90Days", "closed", "Закрытие: 90 дней"},
	{"executionDocumentReceivedO", "executionDocumentReceived", "Получение исполнительного документа"},
	{"courtReaction60Days", "courtReaction", "Реакция суда: 60 дней"},
	{"firstStatus14Days", "firstStatusChanged", "Смена первого статуса: 14 дней"},
}

// DocumentTypes maps document type keys to their Russian names in report
// order.
var DocumentTypes = []struct{ Key, Title string }{
	{"executionDocument", "Исполнительный лист"},
	{"courtDecision", "Решение суда"},
	{"courtOrder", "Судебный приказ"},
}

// Checks lists the checks of kind in display order.
func Checks(kind services.Kind) []Check {
	if kind == services.Order {
		return orderChecks
	}
	return lawsuitChecks
}

// FindCheck looks up a check of kind by name.
func FindCheck(kind services.Kind, name string) (Check, bool) {
	for _, c := range Checks(kind) {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// StageTitle returns the Russian name of a case stage.
func StageTitle(stage string) string {
	if t, ok := stageTitles[stage]; ok {
		return t
	}
	return stage
}

// KindTitle names a production kind.
func KindTitle(kind services.Kind) string {
	if kind == services.Order {
		return "Приказное производство"
	}
	return "Исковое производство"
}

func segments(kinds []segmentKind, values []int) []chart.Segment {
	out := make([]chart.Segment, 0, len(kinds))
	for i, k := range kinds {
		v := 0
		if i < len(values) {
			v = values[i]
		}
		out = append(out, chart.Segment{Name: k.Name, Label: k.Label, Value: v, Color: k.Color})
	}
	return out
}

// groupBar turns one ChartGroup into a stacked bar. The exception group
// carries exception kinds instead of statuses. Regular checks never report
// an upcoming count, so a zero upcoming segment is dropped.
func groupBar(g services.ChartGroup, title string) chart.SegmentedBar {
	bar := chart.SegmentedBar{Name: g.GroupName, Title: title}
	if g.GroupName == ExceptionCheck {
		bar.Segments = segments(exceptionSegments, g.Values)
	} else {
		segs := segments(statusSegments, g.Values)
		bar.Segments = segs[:0]
		for _, s := range segs {
			if s.Name == StatusUpcoming && s.Value == 0 {
				continue
			}
			bar.Segments = append(bar.Segments, s)
		}
	}
	bar.Total = bar.Sum()
	return bar
}

// TermsChart builds the stacked chart of kind, ordering bars like Checks and
// appending groups the client does not know by their raw name.
func TermsChart(kind services.Kind, data services.ChartData) chart.StackedChart {
	byName := make(map[string]services.ChartGroup, len(data.Data))
	for _, g := range data.Data {
		byName[g.GroupName] = g
	}

	c := chart.StackedChart{
		Name:  string(kind),
		Title: fmt.Sprintf("%s (%d)", KindTitle(kind), data.TotalCases),
	}
	seen := map[string]bool{}
	for _, chk := range Checks(kind) {
		g, ok := byName[chk.Name]
		if !ok {
			continue
		}
		seen[chk.Name] = true
		c.Bars = append(c.Bars, groupBar(g, chk.Title))
	}
	for _, g := range data.Data {
		if !seen[g.GroupName] {
			c.Bars = append(c.Bars, groupBar(g, g.GroupName))
		}
	}
	return c
}

// DocumentsChart builds the stacked chart of document monitoring.
func DocumentsChart(data services.ChartData) chart.StackedChart {
	c := chart.StackedChart{
		Name:  DocumentsChartName,
		Title: fmt.Sprintf("Документы (%d)", data.TotalDocuments),
	}
	for _, g := range data.Data {
		title := g.GroupName
		for _, dt := range DocumentTypes {
			if dt.Key == g.GroupName {
				title = dt.Title
			}
		}
		c.Bars = append(c.Bars, groupBar(g, title))
	}
	return c
}
