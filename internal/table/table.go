package table

import (
	"slices"
	"strings"
)

// Option configures a Table.
type Option[R any] func(*Table[R])

// WithLocale sets the collation and date locale (BCP 47, e.g. "ru").
func WithLocale[R any](locale string) Option[R] {
	return func(t *Table[R]) {
		if strings.TrimSpace(locale) == "" {
			return
		}
		t.locale = locale
	}
}

// WithSortController makes the table read and write its sort state through c.
func WithSortController[R any](c SortController) Option[R] {
	return func(t *Table[R]) {
		t.sortCtrl = c
	}
}

// WithRowClick registers the callback invoked by Click.
func WithRowClick[R any](fn func(row R, visibleIndex int)) Option[R] {
	return func(t *Table[R]) {
		t.onRowClick = fn
	}
}

// Table holds rows of type R together with the sort and filter state used to
// derive the visible view. It is not safe for concurrent use.
type Table[R any] struct {
	columns []Column[R]
	byKey   map[string]int

	rows []R

	loading    bool
	loadingMsg string

	sort     SortState
	sortCtrl SortController
	filter   FilterState

	onRowClick func(row R, visibleIndex int)

	locale string
	cmp    *comparer
	layout string
}

// New builds a table over the given columns.
func New[R any](columns []Column[R], opts ...Option[R]) *Table[R] {
	t := &Table[R]{
		columns: slices.Clone(columns),
		byKey:   make(map[string]int, len(columns)),
		filter:  FilterState{},
		locale:  DefaultLocale,
	}
	for i, c := range t.columns {
		t.byKey[c.Key] = i
	}
	for _, opt := range opts {
		opt(t)
	}
	t.cmp = newComparer(t.locale)
	t.layout = dateLayout(t.locale)
	return t
}

// Columns returns the column descriptors in display order.
func (t *Table[R]) Columns() []Column[R] {
	return slices.Clone(t.columns)
}

// Column looks a column up by key.
func (t *Table[R]) Column(key string) (Column[R], bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Column[R]{}, false
	}
	return t.columns[i], true
}

// SetRows replaces the row set wholesale and ends any loading state.
func (t *Table[R]) SetRows(rows []R) {
	t.rows = slices.Clone(rows)
	t.loading = false
	t.loadingMsg = ""
}

// Rows returns the full, unfiltered row set.
func (t *Table[R]) Rows() []R {
	return slices.Clone(t.rows)
}

// SetLoading toggles the loading state. While loading the table exposes no
// visible rows, only the message.
func (t *Table[R]) SetLoading(loading bool, message string) {
	t.loading = loading
	t.loadingMsg = message
}

// Loading reports the loading flag and its message.
func (t *Table[R]) Loading() (bool, string) {
	return t.loading, t.loadingMsg
}

// Sort returns the effective sort state.
func (t *Table[R]) Sort() SortState {
	if t.sortCtrl != nil {
		return t.sortCtrl.Sort()
	}
	return t.sort
}

// SetSort replaces the sort state. SortNone clears it.
func (t *Table[R]) SetSort(s SortState) {
	if s.Dir == SortNone {
		s = SortState{}
	}
	if t.sortCtrl != nil {
		t.sortCtrl.SetSort(s)
		return
	}
	t.sort = s
}

// ClearSort removes the active sort.
func (t *Table[R]) ClearSort() {
	t.SetSort(SortState{})
}

// Filter returns a copy of the committed filter state.
func (t *Table[R]) Filter() FilterState {
	return t.filter.Clone()
}

// SetFilter commits the selected values for a column. An empty selection
// removes the column's filter.
func (t *Table[R]) SetFilter(key string, values []string) {
	if len(values) == 0 {
		delete(t.filter, key)
		return
	}
	t.filter[key] = newValueSet(values)
}

// ClearFilter removes the filter on one column.
func (t *Table[R]) ClearFilter(key string) {
	delete(t.filter, key)
}

// Reset clears every filter and the sort.
func (t *Table[R]) Reset() {
	t.filter = FilterState{}
	t.ClearSort()
}

// Options returns the distinct non-empty values of a column over the full,
// unfiltered row set, in collation order.
func (t *Table[R]) Options(key string) []FilterOption {
	col, ok := t.Column(key)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, row := range t.rows {
		v := toString(col.value(row))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b string) int { return t.cmp.compare(a, b) })

	out := make([]FilterOption, len(values))
	for i, v := range values {
		out[i] = FilterOption{Value: v, Label: v}
	}
	return out
}

// Visible returns sort(filter(rows)). Ties keep their original relative
// order. A loading table has no visible rows.
func (t *Table[R]) Visible() []R {
	if t.loading {
		return nil
	}
	idx := t.filtered()
	t.sortIndices(idx)

	out := make([]R, len(idx))
	for i, j := range idx {
		out[i] = t.rows[j]
	}
	return out
}

// Cell returns the display string of a row's value in the given column.
func (t *Table[R]) Cell(row R, col Column[R]) string {
	return Format(col.value(row), t.layout)
}

// Click invokes the row-click callback with the row at visibleIndex of the
// current view. It reports whether a row was found.
func (t *Table[R]) Click(visibleIndex int) bool {
	if t.onRowClick == nil {
		return false
	}
	visible := t.Visible()
	if visibleIndex < 0 || visibleIndex >= len(visible) {
		return false
	}
	t.onRowClick(visible[visibleIndex], visibleIndex)
	return true
}

func (t *Table[R]) filtered() []int {
	active := make([]int, 0, len(t.filter))
	for key, set := range t.filter {
		if len(set) == 0 {
			continue
		}
		if i, ok := t.byKey[key]; ok {
			active = append(active, i)
		}
	}

	idx := make([]int, 0, len(t.rows))
rows:
	for i, row := range t.rows {
		for _, ci := range active {
			col := t.columns[ci]
			if _, ok := t.filter[col.Key][toString(col.value(row))]; !ok {
				continue rows
			}
		}
		idx = append(idx, i)
	}
	return idx
}

func (t *Table[R]) sortIndices(idx []int) {
	s := t.Sort()
	if !s.Active() {
		return
	}
	col, ok := t.Column(s.Key)
	if !ok || !col.Sortable() {
		return
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		c := t.cmp.compare(col.value(t.rows[a]), col.value(t.rows[b]))
		if s.Dir == SortDesc {
			return -c
		}
		return c
	})
}
