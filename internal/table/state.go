package table

import (
	"maps"
	"slices"
)

// SortDir is the direction of the active sort.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// ParseSortDir accepts asc, desc and none (or empty).
func ParseSortDir(s string) (SortDir, bool) {
	switch s {
	case "asc", "ascending":
		return SortAsc, true
	case "desc", "descending":
		return SortDesc, true
	case "", "none":
		return SortNone, true
	default:
		return SortNone, false
	}
}

// SortState is the single active sort column, if any.
type SortState struct {
	Key string
	Dir SortDir
}

// Active reports whether the state names a column and a direction.
func (s SortState) Active() bool {
	return s.Key != "" && s.Dir != SortNone
}

// SortController lets a caller own the sort state. When a table has a
// controller it never keeps sort state of its own.
type SortController interface {
	Sort() SortState
	SetSort(SortState)
}

// FilterState maps a column key to the set of selected raw values.
// A missing key or an empty set means the column is not filtered.
type FilterState map[string]map[string]struct{}

// Active reports whether key has at least one selected value.
func (f FilterState) Active(key string) bool {
	return len(f[key]) > 0
}

// Selected returns the selected values for key in sorted order.
func (f FilterState) Selected(key string) []string {
	return slices.Sorted(maps.Keys(f[key]))
}

// Has reports whether value is selected for key.
func (f FilterState) Has(key, value string) bool {
	_, ok := f[key][value]
	return ok
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, set := range f {
		if len(set) == 0 {
			continue
		}
		out[k] = maps.Clone(set)
	}
	return out
}

func newValueSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// FilterOption is one selectable value of a column filter.
type FilterOption struct {
	Value string
	Label string
}
