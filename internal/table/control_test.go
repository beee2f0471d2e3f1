package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusTable() *Table[row] {
	tbl := New(columns("status", "gosb"))
	tbl.SetRows([]row{
		{"status": "В срок", "gosb": "Москва"},
		{"status": "Просрочено", "gosb": "Казань"},
		{"status": "Нет данных", "gosb": "Москва"},
	})
	return tbl
}

var (
	anchor   = Rect{X: 10, Y: 1, W: 12, H: 1}
	popup    = Size{W: 30, H: 10}
	viewport = Size{W: 120, H: 40}
)

func TestControlApplyCommitsSelection(t *testing.T) {
	tbl := newStatusTable()
	c := NewControl("t/status", "status", tbl, NewCoordinator())

	c.Open(anchor, popup, viewport)
	require.True(t, c.IsOpen())
	assert.Len(t, c.Options(), 3)

	c.Toggle("Просрочено")
	c.Toggle("В срок")
	c.Toggle("В срок")
	c.Apply()

	assert.Equal(t, Closed, c.State())
	assert.Equal(t, []string{"Просрочено"}, tbl.Filter().Selected("status"))
	assert.Len(t, tbl.Visible(), 1)
}

func TestControlDismissDiscardsEdits(t *testing.T) {
	tbl := newStatusTable()
	tbl.SetFilter("status", []string{"В срок"})
	c := NewControl("t/status", "status", tbl, NewCoordinator())

	c.Open(anchor, popup, viewport)
	assert.True(t, c.Checked("В срок"))
	c.Toggle("Нет данных")
	c.Dismiss()

	assert.False(t, c.IsOpen())
	assert.Equal(t, []string{"В срок"}, tbl.Filter().Selected("status"))

	// reopening starts from the committed filter again
	c.Open(anchor, popup, viewport)
	assert.Equal(t, []string{"В срок"}, c.Pending())
}

func TestControlResetClearsColumnFilter(t *testing.T) {
	tbl := newStatusTable()
	tbl.SetFilter("status", []string{"В срок"})
	tbl.SetFilter("gosb", []string{"Москва"})
	c := NewControl("t/status", "status", tbl, NewCoordinator())

	c.Open(anchor, popup, viewport)
	c.Reset()

	assert.False(t, c.IsOpen())
	assert.False(t, tbl.Filter().Active("status"))
	assert.True(t, tbl.Filter().Active("gosb"))
}

func TestControlSortCommitsImmediately(t *testing.T) {
	tbl := newStatusTable()
	c := NewControl("t/gosb", "gosb", tbl, NewCoordinator())

	c.Open(anchor, popup, viewport)
	c.Toggle("Казань")
	c.ChooseSort(SortDesc)

	assert.False(t, c.IsOpen())
	assert.Equal(t, SortState{Key: "gosb", Dir: SortDesc}, tbl.Sort())
	assert.False(t, tbl.Filter().Active("gosb"), "pending checkbox edits are not committed by a sort choice")

	c.Open(anchor, popup, viewport)
	c.ChooseSort(SortNone)
	assert.False(t, tbl.Sort().Active())
}

func TestControlQueryNarrowsOptions(t *testing.T) {
	tbl := newStatusTable()
	c := NewControl("t/status", "status", tbl, NewCoordinator())
	c.Open(anchor, popup, viewport)

	c.SetQuery("СРОК")
	assert.Equal(t, []FilterOption{{Value: "В срок", Label: "В срок"}}, c.VisibleOptions())

	c.SetQuery("")
	assert.Len(t, c.VisibleOptions(), 3)
}

func TestControlIgnoresEditsWhileClosed(t *testing.T) {
	tbl := newStatusTable()
	c := NewControl("t/status", "status", tbl, NewCoordinator())

	c.Toggle("В срок")
	c.SetQuery("x")
	c.Apply()
	c.ChooseSort(SortAsc)

	assert.Empty(t, tbl.Filter())
	assert.False(t, tbl.Sort().Active())
	assert.Empty(t, c.Query())
}

func TestControlOnEmptyColumn(t *testing.T) {
	tbl := New(columns("empty"))
	tbl.SetRows([]row{{"empty": ""}, {}})
	c := NewControl("t/empty", "empty", tbl, NewCoordinator())

	c.Open(anchor, popup, viewport)
	assert.True(t, c.IsOpen())
	assert.Empty(t, c.Options())
	c.Apply()
	assert.Len(t, tbl.Visible(), 2)
}

func TestOnlyOneControlOpen(t *testing.T) {
	coord := NewCoordinator()
	tbl := newStatusTable()
	other := New(columns("x"))

	a := NewControl("first/status", "status", tbl, coord)
	b := NewControl("first/gosb", "gosb", tbl, coord)
	c := NewControl("second/x", "x", other, coord)

	a.Open(anchor, popup, viewport)
	a.Toggle("В срок")
	assert.Equal(t, "first/status", coord.Active())

	b.Open(anchor, popup, viewport)
	assert.False(t, a.IsOpen())
	assert.True(t, b.IsOpen())
	assert.Equal(t, "first/gosb", coord.Active())
	assert.Empty(t, tbl.Filter(), "edits of the displaced control are discarded")

	c.Open(anchor, popup, viewport)
	assert.False(t, b.IsOpen())
	assert.Equal(t, "second/x", coord.Active())

	c.Dismiss()
	assert.Empty(t, coord.Active())
}

func TestCoordinatorDismissActive(t *testing.T) {
	coord := NewCoordinator()
	tbl := newStatusTable()
	a := NewControl("a", "status", tbl, coord)

	assert.False(t, coord.DismissActive())

	a.Open(anchor, popup, viewport)
	assert.True(t, coord.DismissActive())
	assert.False(t, a.IsOpen())
	assert.Empty(t, coord.Active())
}

func TestCoordinatorReleaseIgnoresStaleID(t *testing.T) {
	coord := NewCoordinator()
	closed := 0
	coord.Activate("a", func() { closed++ })
	coord.Activate("b", nil)
	assert.Equal(t, 1, closed)

	coord.Release("a")
	assert.Equal(t, "b", coord.Active())

	coord.Activate("b", nil)
	assert.Equal(t, 1, closed, "re-activating the same id does not close it")
}

func TestNilCoordinatorUsesShared(t *testing.T) {
	tbl := newStatusTable()
	c := NewControl("shared/status", "status", tbl, nil)
	c.Open(anchor, popup, viewport)
	t.Cleanup(c.Dismiss)

	assert.Equal(t, "shared/status", SharedCoordinator().Active())
}

func TestPlace(t *testing.T) {
	vp := Size{W: 100, H: 30}

	tests := []struct {
		name   string
		anchor Rect
		popup  Size
		want   Point
	}{
		{
			name:   "below right when there is room",
			anchor: Rect{X: 5, Y: 2, W: 10, H: 1},
			popup:  Size{W: 20, H: 8},
			want:   Point{X: 5, Y: 3},
		},
		{
			name:   "above when no room below",
			anchor: Rect{X: 5, Y: 25, W: 10, H: 1},
			popup:  Size{W: 20, H: 8},
			want:   Point{X: 5, Y: 17},
		},
		{
			name:   "left aligned to the anchor's right edge when no room right",
			anchor: Rect{X: 85, Y: 2, W: 10, H: 1},
			popup:  Size{W: 30, H: 8},
			want:   Point{X: 65, Y: 3},
		},
		{
			name:   "above and left near the bottom right corner",
			anchor: Rect{X: 85, Y: 25, W: 10, H: 1},
			popup:  Size{W: 30, H: 8},
			want:   Point{X: 65, Y: 17},
		},
		{
			name:   "clamped when neither side fits",
			anchor: Rect{X: 40, Y: 14, W: 5, H: 1},
			popup:  Size{W: 60, H: 20},
			want:   Point{X: 40, Y: 10},
		},
		{
			name:   "popup larger than viewport pins to origin",
			anchor: Rect{X: 3, Y: 3, W: 5, H: 1},
			popup:  Size{W: 200, H: 50},
			want:   Point{X: 0, Y: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.anchor, tt.popup, vp)
			assert.Equal(t, tt.want, got)
			if tt.popup.W <= vp.W && tt.popup.H <= vp.H {
				assert.True(t, (Rect{W: vp.W, H: vp.H}).Contains(got))
				assert.LessOrEqual(t, got.X+tt.popup.W, vp.W)
				assert.LessOrEqual(t, got.Y+tt.popup.H, vp.H)
			}
		})
	}
}
