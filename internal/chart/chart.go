package chart

import "github.com/legaldesk/casectl/internal/theme"

// Bar is one bar of a simple bar chart.
type Bar struct {
	ID    string
	Label string
	Value int
	Color string
}

// Segment is one status bucket inside a stacked bar.
type Segment struct {
	Name  string
	Label string
	Value int
	Color string
}

// SegmentedBar is a stacked bar, one per stage or document type.
type SegmentedBar struct {
	Name     string
	Title    string
	Segments []Segment
	Total    int
}

// Sum adds the positive segment values.
func (b SegmentedBar) Sum() int {
	sum := 0
	for _, s := range b.Segments {
		if s.Value > 0 {
			sum += s.Value
		}
	}
	return sum
}

// Selection identifies a clicked bar or segment for drill-down.
type Selection struct {
	// Chart names the chart the element belongs to.
	Chart string
	// Name is the bar id or the stacked bar's name.
	Name string
	// Status is the segment name; empty for simple bars.
	Status string
	Label  string
	Count  int
}

// Rect is an area of the rendered chart, relative to its top-left corner.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is the clickable area of one chart element.
type Region struct {
	Rect
	Selection
}

// Clickable reports whether the element may start a drill-down.
func (r Region) Clickable() bool {
	return r.Count > 0
}

// Hit returns the selection under (x, y). Elements with a zero count never
// produce a selection.
func Hit(regions []Region, x, y int) (Selection, bool) {
	for _, r := range regions {
		if r.contains(x, y) {
			if !r.Clickable() {
				return Selection{}, false
			}
			return r.Selection, true
		}
	}
	return Selection{}, false
}

// Chart renders itself and reports where its elements were drawn. focus is an
// index into the returned regions, or -1.
type Chart interface {
	Render(p theme.Palette, width int, focus int) (string, []Region)
}

// Clicker dispatches clicks on rendered regions to a callback.
type Clicker struct {
	Regions  []Region
	OnSelect func(Selection)
}

// Click invokes OnSelect for a clickable element under (x, y) and reports
// whether it did.
func (c Clicker) Click(x, y int) bool {
	sel, ok := Hit(c.Regions, x, y)
	if !ok || c.OnSelect == nil {
		return false
	}
	c.OnSelect(sel)
	return true
}
