package table

// Point is a cell position.
type Point struct {
	X, Y int
}

// Size is a width and height in cells.
type Size struct {
	W, H int
}

// Rect is a positioned size.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Place positions a popup of the given size next to anchor so it stays
// inside the viewport. It prefers below the anchor with the left edges
// aligned, falls back to above and to right-edge alignment, and clamps to
// the viewport when neither side has room.
func Place(anchor Rect, popup Size, viewport Size) Point {
	below := anchor.Y + anchor.H
	y := below
	switch {
	case popup.H <= viewport.H-below:
	case popup.H <= anchor.Y:
		y = anchor.Y - popup.H
	}

	x := anchor.X
	switch {
	case popup.W <= viewport.W-anchor.X:
	case popup.W <= anchor.X+anchor.W:
		x = anchor.X + anchor.W - popup.W
	}

	return Point{
		X: clamp(x, 0, viewport.W-popup.W),
		Y: clamp(y, 0, viewport.H-popup.H),
	}
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
