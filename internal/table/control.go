package table

import (
	"maps"
	"slices"
	"strings"
)

// ControlState is the state of a column's sort/filter control.
type ControlState int

const (
	Closed ControlState = iota
	Open
)

// Source is the table side of a Control.
type Source interface {
	Options(key string) []FilterOption
	Filter() FilterState
	SetFilter(key string, values []string)
	SetSort(SortState)
	Sort() SortState
}

// Control is the sort/filter popup of one sortable column. Edits to the
// checkbox selection are pending until Apply; Dismiss throws them away.
type Control struct {
	id    string
	key   string
	src   Source
	coord *Coordinator

	state     ControlState
	options   []FilterOption
	pending   map[string]struct{}
	query     string
	placement Point
}

// NewControl builds a closed control for column key. id must be unique among
// all controls sharing coord.
func NewControl(id, key string, src Source, coord *Coordinator) *Control {
	if coord == nil {
		coord = SharedCoordinator()
	}
	return &Control{id: id, key: key, src: src, coord: coord}
}

// ID returns the control's coordinator id.
func (c *Control) ID() string { return c.id }

// Key returns the column key.
func (c *Control) Key() string { return c.key }

// State returns the current state.
func (c *Control) State() ControlState { return c.state }

// IsOpen reports whether the control is open.
func (c *Control) IsOpen() bool { return c.state == Open }

// Open computes the option list and the popup position, seeds the pending
// selection from the committed filter and closes any other open control.
func (c *Control) Open(anchor Rect, popup Size, viewport Size) {
	if c.state == Open {
		return
	}
	c.options = c.src.Options(c.key)
	c.pending = maps.Clone(c.src.Filter()[c.key])
	if c.pending == nil {
		c.pending = map[string]struct{}{}
	}
	c.query = ""
	c.placement = Place(anchor, popup, viewport)
	c.state = Open
	c.coord.Activate(c.id, c.discard)
}

// Placement returns where the popup was placed when it opened.
func (c *Control) Placement() Point { return c.placement }

// Options returns every option computed on open.
func (c *Control) Options() []FilterOption {
	return slices.Clone(c.options)
}

// Query returns the current option search text.
func (c *Control) Query() string { return c.query }

// SetQuery narrows VisibleOptions by case-insensitive substring on label.
func (c *Control) SetQuery(q string) {
	if c.state != Open {
		return
	}
	c.query = q
}

// VisibleOptions returns the options whose label contains the query.
func (c *Control) VisibleOptions() []FilterOption {
	q := strings.ToLower(strings.TrimSpace(c.query))
	if q == "" {
		return c.Options()
	}
	out := make([]FilterOption, 0, len(c.options))
	for _, o := range c.options {
		if strings.Contains(strings.ToLower(o.Label), q) {
			out = append(out, o)
		}
	}
	return out
}

// Toggle flips a value in the pending selection.
func (c *Control) Toggle(value string) {
	if c.state != Open {
		return
	}
	if _, ok := c.pending[value]; ok {
		delete(c.pending, value)
		return
	}
	c.pending[value] = struct{}{}
}

// Checked reports whether value is in the pending selection.
func (c *Control) Checked(value string) bool {
	_, ok := c.pending[value]
	return ok
}

// Pending returns the pending selection in sorted order.
func (c *Control) Pending() []string {
	return slices.Sorted(maps.Keys(c.pending))
}

// Apply commits the pending selection as the column's filter and closes.
func (c *Control) Apply() {
	if c.state != Open {
		return
	}
	c.src.SetFilter(c.key, c.Pending())
	c.close()
}

// Reset clears the column's filter and closes.
func (c *Control) Reset() {
	if c.state != Open {
		return
	}
	c.src.SetFilter(c.key, nil)
	c.close()
}

// ChooseSort commits a sort on this column (SortNone clears it) and closes.
// Pending checkbox edits are discarded.
func (c *Control) ChooseSort(dir SortDir) {
	if c.state != Open {
		return
	}
	switch {
	case dir != SortNone:
		c.src.SetSort(SortState{Key: c.key, Dir: dir})
	case c.src.Sort().Key == c.key:
		c.src.SetSort(SortState{})
	}
	c.close()
}

// Dismiss closes without committing, as on Escape or an outside click.
func (c *Control) Dismiss() {
	if c.state != Open {
		return
	}
	c.close()
}

func (c *Control) close() {
	c.discard()
	c.coord.Release(c.id)
}

// discard resets local state without touching the coordinator. It is the
// closer handed to the coordinator.
func (c *Control) discard() {
	c.state = Closed
	c.pending = nil
	c.options = nil
	c.query = ""
}
