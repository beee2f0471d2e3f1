package chart

import (
	"math"
	"slices"
)

const (
	smallStep      = 1000
	largeStep      = 3000
	smallStepLimit = 12000
)

// Scale maps values to widths. Max is the value drawn at full width.
type Scale struct {
	Max  int
	Step int
}

// NewScale rounds peak up to the tick step: 1000 while peak <= 12000 and 3000
// above that. A zero peak yields a scale where every width is zero.
func NewScale(peak int) Scale {
	if peak <= 0 {
		return Scale{}
	}
	step := smallStep
	if peak > smallStepLimit {
		step = largeStep
	}
	return Scale{Max: (peak + step - 1) / step * step, Step: step}
}

// FitScale uses peak itself as full width, without ticks.
func FitScale(peak int) Scale {
	if peak <= 0 {
		return Scale{}
	}
	return Scale{Max: peak}
}

// Width returns the width of value on a track of the given size. Zero and
// negative values get zero width; any positive value gets at least one cell.
func (s Scale) Width(value, track int) int {
	if value <= 0 || s.Max <= 0 || track <= 0 {
		return 0
	}
	w := int(math.Round(float64(value) * float64(track) / float64(s.Max)))
	return min(max(w, 1), track)
}

// Ticks returns the tick values from 0 to Max inclusive.
func (s Scale) Ticks() []int {
	if s.Step <= 0 || s.Max <= 0 {
		return nil
	}
	ticks := make([]int, 0, s.Max/s.Step+1)
	for v := 0; v <= s.Max; v += s.Step {
		ticks = append(ticks, v)
	}
	return ticks
}

// SegmentWidths splits a bar of the given width between segments in
// proportion to their values. Positive segments narrower than minWidth are
// widened to minWidth, so the sum may exceed width for small values. See
// FitWidths.
func SegmentWidths(values []int, width, minWidth int) []int {
	out := make([]int, len(values))
	total := 0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 || width <= 0 {
		return out
	}
	for i, v := range values {
		if v <= 0 {
			continue
		}
		w := int(math.Round(float64(v) * float64(width) / float64(total)))
		out[i] = max(w, minWidth)
	}
	return out
}

// FitWidths takes columns back from the widest segments until widths sum to
// at most limit. Segments keep minWidth while any wider segment is left and
// never drop below one column.
func FitWidths(widths []int, limit, minWidth int) []int {
	out := slices.Clone(widths)
	excess := -limit
	for _, w := range out {
		excess += w
	}
	for floor := max(minWidth, 1); excess > 0 && floor >= 1; floor-- {
		for excess > 0 {
			i := widest(out)
			if i < 0 || out[i] <= floor {
				break
			}
			out[i]--
			excess--
		}
	}
	return out
}

func widest(widths []int) int {
	best := -1
	for i, w := range widths {
		if w > 0 && (best < 0 || w > widths[best]) {
			best = i
		}
	}
	return best
}
