package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/legaldesk/casectl/internal/theme"
)

const (
	maxLabelWidth     = 28
	minTrackWidth     = 10
	defaultMinSegment = 3
	barRune           = "█"
	legendRune        = "■"
)

// BarChart is a horizontal bar chart scaled by tick steps.
type BarChart struct {
	Name  string
	Title string
	Bars  []Bar
}

// Peak returns the largest bar value.
func (c BarChart) Peak() int {
	peak := 0
	for _, b := range c.Bars {
		peak = max(peak, b.Value)
	}
	return peak
}

// Render draws one line per bar followed by a tick axis.
func (c BarChart) Render(p theme.Palette, width int, focus int) (string, []Region) {
	var lines []string
	if c.Title != "" {
		lines = append(lines, p.ForegroundStyle(theme.ColorTextPrimary).Bold(true).Render(c.Title), "")
	}

	labelW := 0
	for _, b := range c.Bars {
		labelW = max(labelW, ansi.StringWidth(b.Label))
	}
	labelW = min(labelW, maxLabelWidth)
	peak := c.Peak()
	valueW := len(strconv.Itoa(peak))
	track := max(width-labelW-valueW-2, minTrackWidth)
	scale := NewScale(peak)

	labelStyle := p.ForegroundStyle(theme.ColorTextSecondary)
	focusStyle := p.ForegroundStyle(theme.ColorAccent).Bold(true).Underline(true)
	mutedStyle := p.ForegroundStyle(theme.ColorTextMuted)

	regions := make([]Region, 0, len(c.Bars))
	for i, b := range c.Bars {
		w := scale.Width(b.Value, track)
		label := pad(ansi.Truncate(b.Label, labelW, "…"), labelW)
		if i == focus {
			label = focusStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Repeat(barRune, w))
		value := fmt.Sprintf("%*d", valueW, b.Value)
		if b.Value == 0 {
			value = mutedStyle.Render(value)
		}

		regions = append(regions, Region{
			Rect: Rect{X: 0, Y: len(lines), W: labelW + 1 + track + 1 + valueW, H: 1},
			Selection: Selection{
				Chart: c.Name,
				Name:  b.ID,
				Label: b.Label,
				Count: b.Value,
			},
		})
		lines = append(lines, label+" "+bar+strings.Repeat(" ", track-w)+" "+value)
	}

	if axis := axisLine(scale, labelW+1, track); axis != "" {
		lines = append(lines, mutedStyle.Render(axis))
	}
	return strings.Join(lines, "\n"), regions
}

// axisLine prints tick values at their positions, skipping labels that would
// overlap the previous one.
func axisLine(scale Scale, offset, track int) string {
	ticks := scale.Ticks()
	if len(ticks) == 0 {
		return ""
	}
	buf := []rune(strings.Repeat(" ", offset+track+8))
	next := 0
	for _, tick := range ticks {
		pos := offset + scale.Width(tick, track)
		text := strconv.Itoa(tick)
		if pos < next || pos+len(text) > len(buf) {
			continue
		}
		copy(buf[pos:], []rune(text))
		next = pos + len(text) + 1
	}
	return strings.TrimRight(string(buf), " ")
}

// StackedChart draws one segmented bar per stage with a shared legend. Bars
// are scaled so the largest total spans the track.
type StackedChart struct {
	Name  string
	Title string
	Bars  []SegmentedBar
	// MinSegment is the narrowest a non-empty segment is drawn. Zero means 3.
	MinSegment int
}

// Render draws a title line and a bar line per stacked bar, then the legend.
func (c StackedChart) Render(p theme.Palette, width int, focus int) (string, []Region) {
	var lines []string
	if c.Title != "" {
		lines = append(lines, p.ForegroundStyle(theme.ColorTextPrimary).Bold(true).Render(c.Title), "")
	}

	minSeg := c.MinSegment
	if minSeg <= 0 {
		minSeg = defaultMinSegment
	}
	peak := 0
	for _, b := range c.Bars {
		peak = max(peak, b.Sum())
	}
	const indent = 2
	track := max(width-indent-1, minTrackWidth)
	scale := FitScale(peak)

	titleStyle := p.ForegroundStyle(theme.ColorTextSecondary)
	mutedStyle := p.ForegroundStyle(theme.ColorTextMuted)

	var regions []Region
	for _, b := range c.Bars {
		total := b.Total
		if total == 0 {
			total = b.Sum()
		}
		lines = append(lines, titleStyle.Render(b.Title)+mutedStyle.Render(fmt.Sprintf("  (%d)", total)))

		values := make([]int, len(b.Segments))
		for i, s := range b.Segments {
			values[i] = s.Value
		}
		widths := FitWidths(SegmentWidths(values, scale.Width(b.Sum(), track), minSeg), track, minSeg)

		y := len(lines)
		x := indent
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", indent))
		for i, s := range b.Segments {
			w := widths[i]
			if w > 0 {
				style := lipgloss.NewStyle().
					Background(lipgloss.Color(s.Color)).
					Foreground(lipgloss.Color(theme.ContrastText(s.Color)))
				if len(regions) == focus {
					style = style.Reverse(true).Bold(true)
				}
				sb.WriteString(style.Render(center(strconv.Itoa(s.Value), w)))
			}
			regions = append(regions, Region{
				Rect: Rect{X: x, Y: y, W: w, H: 1},
				Selection: Selection{
					Chart:  c.Name,
					Name:   b.Name,
					Status: s.Name,
					Label:  s.Label,
					Count:  s.Value,
				},
			})
			x += w
		}
		if b.Sum() == 0 {
			sb.WriteString(mutedStyle.Render("0"))
		}
		lines = append(lines, sb.String(), "")
	}

	if legend := c.legend(); len(legend) > 0 {
		parts := make([]string, len(legend))
		for i, s := range legend {
			parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(legendRune) + " " + s.Label
		}
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(strings.Join(parts, "   ")))
	}
	return strings.Join(lines, "\n"), regions
}

func (c StackedChart) legend() []Segment {
	seen := map[string]bool{}
	var out []Segment
	for _, b := range c.Bars {
		for _, s := range b.Segments {
			if seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			out = append(out, s)
		}
	}
	return out
}

func pad(s string, w int) string {
	if gap := w - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func center(s string, w int) string {
	sw := ansi.StringWidth(s)
	if sw > w {
		return strings.Repeat(" ", w)
	}
	left := (w - sw) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-sw-left)
}
