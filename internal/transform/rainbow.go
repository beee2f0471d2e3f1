// Package transform reshapes backend responses into chart and table models.
package transform

import (
	"strings"

	"github.com/legaldesk/casectl/internal/chart"
	"github.com/legaldesk/casectl/internal/reporting/services"
)

// RainbowChartName identifies the rainbow chart in selections.
const RainbowChartName = "rainbow"

// RainbowColor is one rainbow category. The backend returns counts in the
// order of RainbowColors.
type RainbowColor struct {
	Code string
	Name string
	Hex  string
}

var RainbowColors = []RainbowColor{
	{Code: "ik", Name: "ИК", Hex: "#6D4C41"},
	{Code: "gray", Name: "Серый", Hex: "#9E9E9E"},
	{Code: "green", Name: "Зеленый", Hex: "#43A047"},
	{Code: "yellow", Name: "Желтый", Hex: "#FDD835"},
	{Code: "orange", Name: "Оранжевый", Hex: "#FB8C00"},
	{Code: "blue", Name: "Синий", Hex: "#1E88E5"},
	{Code: "red", Name: "Красный", Hex: "#E53935"},
	{Code: "purple", Name: "Лиловый", Hex: "#8E24AA"},
	{Code: "white", Name: "Белый", Hex: "#F5F5F5"},
}

// LookupColor finds a color by code or Russian name, ignoring case.
func LookupColor(s string) (RainbowColor, bool) {
	s = strings.TrimSpace(s)
	for _, c := range RainbowColors {
		if strings.EqualFold(c.Code, s) || strings.EqualFold(c.Name, s) {
			return c, true
		}
	}
	return RainbowColor{}, false
}

// RainbowBars pairs counts with the fixed color list. Missing counts are
// zero; extra counts are ignored.
func RainbowBars(counts []int) []chart.Bar {
	bars := make([]chart.Bar, len(RainbowColors))
	for i, c := range RainbowColors {
		v := 0
		if i < len(counts) {
			v = counts[i]
		}
		bars[i] = chart.Bar{ID: c.Code, Label: c.Name, Value: v, Color: c.Hex}
	}
	return bars
}

// RainbowChart builds the rainbow bar chart from an analysis result.
func RainbowChart(a services.RainbowAnalysis) chart.BarChart {
	return chart.BarChart{
		Name:  RainbowChartName,
		Title: "Радуга",
		Bars:  RainbowBars(a.Data),
	}
}
