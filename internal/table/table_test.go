package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row map[string]any

func keyColumn(key string) Column[row] {
	return Column[row]{Key: key, Title: key, Value: func(r row) any { return r[key] }}
}

func columns(keys ...string) []Column[row] {
	out := make([]Column[row], len(keys))
	for i, k := range keys {
		out[i] = keyColumn(k)
	}
	return out
}

func values(rows []row, key string) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r[key]
	}
	return out
}

func TestBasicRoundTripSort(t *testing.T) {
	tbl := New(columns("code", "n"))
	tbl.SetRows([]row{{"code": "A", "n": 10}, {"code": "B", "n": 2}})

	tbl.SetSort(SortState{Key: "n", Dir: SortAsc})
	assert.Equal(t, []any{"B", "A"}, values(tbl.Visible(), "code"))

	tbl.SetSort(SortState{Key: "n", Dir: SortDesc})
	assert.Equal(t, []any{"A", "B"}, values(tbl.Visible(), "code"))
}

func TestFilterThenClear(t *testing.T) {
	tbl := New(columns("status"))
	tbl.SetRows([]row{{"status": "timely"}, {"status": "overdue"}, {"status": "timely"}})

	tbl.SetFilter("status", []string{"overdue"})
	assert.Len(t, tbl.Visible(), 1)

	tbl.SetFilter("status", nil)
	assert.Len(t, tbl.Visible(), 3)
}

func TestNumericStringsSortNumerically(t *testing.T) {
	tbl := New(columns("v"))
	tbl.SetRows([]row{{"v": "10"}, {"v": "2"}, {"v": "1.5"}})
	tbl.SetSort(SortState{Key: "v", Dir: SortAsc})

	assert.Equal(t, []any{"1.5", "2", "10"}, values(tbl.Visible(), "v"))
}

func TestMixedPairFallsBackToCollation(t *testing.T) {
	c := newComparer("ru")
	// "10" vs "abc": not both numeric, so string order: digits before letters
	assert.Negative(t, c.compare("10", "abc"))
	// lexicographic, not numeric, when one side is not a number
	assert.Negative(t, c.compare("10", "2x"))
	assert.Positive(t, c.compare(10, 2))
}

func TestCollationIsCaseInsensitiveAndCyrillicAware(t *testing.T) {
	tbl := New(columns("name"))
	tbl.SetRows([]row{
		{"name": "ёлка"},
		{"name": "Яблоко"},
		{"name": "абрикос"},
		{"name": "Жук"},
		{"name": "еж"},
	})
	tbl.SetSort(SortState{Key: "name", Dir: SortAsc})

	assert.Equal(t, []any{"абрикос", "еж", "ёлка", "Жук", "Яблоко"}, values(tbl.Visible(), "name"))
}

func TestNilSortsAsEmpty(t *testing.T) {
	tbl := New(columns("name"))
	tbl.SetRows([]row{{"name": "b"}, {"name": nil}, {"name": "a"}})
	tbl.SetSort(SortState{Key: "name", Dir: SortAsc})

	assert.Equal(t, []any{nil, "a", "b"}, values(tbl.Visible(), "name"))
}

func TestTiesKeepOriginalOrder(t *testing.T) {
	tbl := New(columns("id", "g"))
	tbl.SetRows([]row{
		{"id": 1, "g": "x"},
		{"id": 2, "g": "y"},
		{"id": 3, "g": "x"},
		{"id": 4, "g": "y"},
	})

	tbl.SetSort(SortState{Key: "g", Dir: SortAsc})
	assert.Equal(t, []any{1, 3, 2, 4}, values(tbl.Visible(), "id"))

	tbl.SetSort(SortState{Key: "g", Dir: SortDesc})
	assert.Equal(t, []any{2, 4, 1, 3}, values(tbl.Visible(), "id"))
}

func TestAndAcrossColumnsOrWithinColumn(t *testing.T) {
	rows := []row{
		{"id": 1, "color": "red", "gosb": "A"},
		{"id": 2, "color": "green", "gosb": "A"},
		{"id": 3, "color": "blue", "gosb": "A"},
		{"id": 4, "color": "red", "gosb": "B"},
	}
	tbl := New(columns("id", "color", "gosb"))
	tbl.SetRows(rows)

	tbl.SetFilter("color", []string{"red", "green"})
	assert.Equal(t, []any{1, 2, 4}, values(tbl.Visible(), "id"))

	tbl.SetFilter("gosb", []string{"A"})
	assert.Equal(t, []any{1, 2}, values(tbl.Visible(), "id"))

	// every visible row satisfies every active filter
	f := tbl.Filter()
	for _, r := range tbl.Visible() {
		for key := range f {
			assert.True(t, f.Has(key, toString(r[key])))
		}
	}
}

func TestFilterMatchesCoercedString(t *testing.T) {
	tbl := New(columns("n"))
	tbl.SetRows([]row{{"n": 5}, {"n": 7}, {"n": 5.5}})
	tbl.SetFilter("n", []string{"5", "5.5"})

	assert.Equal(t, []any{5, 5.5}, values(tbl.Visible(), "n"))
}

func TestSortNeverChangesMembership(t *testing.T) {
	tbl := New(columns("id", "s"))
	tbl.SetRows([]row{{"id": 1, "s": "b"}, {"id": 2, "s": "a"}, {"id": 3, "s": "c"}})
	tbl.SetFilter("s", []string{"a", "c"})

	unsorted := tbl.Visible()
	for _, s := range []SortState{{Key: "s", Dir: SortAsc}, {Key: "s", Dir: SortDesc}, {Key: "id", Dir: SortDesc}} {
		tbl.SetSort(s)
		assert.ElementsMatch(t, unsorted, tbl.Visible())
	}
}

func TestReapplyingStateIsIdempotent(t *testing.T) {
	tbl := New(columns("id", "s"))
	tbl.SetRows([]row{{"id": 1, "s": "b"}, {"id": 2, "s": "a"}, {"id": 3, "s": "b"}})

	apply := func() []row {
		tbl.SetFilter("s", []string{"b", "a"})
		tbl.SetSort(SortState{Key: "s", Dir: SortDesc})
		return tbl.Visible()
	}
	first := apply()
	second := apply()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("visible rows changed (-first +second):\n%s", diff)
	}
}

func TestUnknownOrUnsortableSortKeyIsNoop(t *testing.T) {
	cols := columns("id")
	cols = append(cols, Column[row]{Key: "fixed", Unsortable: true, Value: func(r row) any { return r["fixed"] }})
	tbl := New(cols)
	tbl.SetRows([]row{{"id": 2, "fixed": 1}, {"id": 1, "fixed": 0}})

	tbl.SetSort(SortState{Key: "missing", Dir: SortAsc})
	assert.Equal(t, []any{2, 1}, values(tbl.Visible(), "id"))

	tbl.SetSort(SortState{Key: "fixed", Dir: SortAsc})
	assert.Equal(t, []any{2, 1}, values(tbl.Visible(), "id"))
}

func TestOptionsComeFromUnfilteredRows(t *testing.T) {
	tbl := New(columns("color", "gosb"))
	tbl.SetRows([]row{
		{"color": "red", "gosb": "B"},
		{"color": "", "gosb": "A"},
		{"color": "green", "gosb": "A"},
		{"color": "red", "gosb": nil},
	})
	tbl.SetFilter("gosb", []string{"A"})

	assert.Equal(t, []FilterOption{
		{Value: "green", Label: "green"},
		{Value: "red", Label: "red"},
	}, tbl.Options("color"))
	assert.Nil(t, tbl.Options("missing"))
}

func TestEmptyRowsAndEmptyColumn(t *testing.T) {
	tbl := New(columns("a"))
	assert.Empty(t, tbl.Visible())
	assert.Empty(t, tbl.Options("a"))
	assert.Len(t, tbl.Columns(), 1)
}

func TestLoadingHidesRows(t *testing.T) {
	tbl := New(columns("a"))
	tbl.SetRows([]row{{"a": 1}})
	tbl.SetLoading(true, "Загрузка...")

	loading, msg := tbl.Loading()
	assert.True(t, loading)
	assert.Equal(t, "Загрузка...", msg)
	assert.Empty(t, tbl.Visible())

	tbl.SetRows([]row{{"a": 1}, {"a": 2}})
	loading, _ = tbl.Loading()
	assert.False(t, loading)
	assert.Len(t, tbl.Visible(), 2)
}

type externalSort struct {
	state SortState
	calls int
}

func (e *externalSort) Sort() SortState { return e.state }
func (e *externalSort) SetSort(s SortState) {
	e.calls++
	e.state = s
}

func TestExternalSortController(t *testing.T) {
	ext := &externalSort{state: SortState{Key: "n", Dir: SortDesc}}
	tbl := New(columns("n"), WithSortController[row](ext))
	tbl.SetRows([]row{{"n": 1}, {"n": 3}, {"n": 2}})

	assert.Equal(t, []any{3, 2, 1}, values(tbl.Visible(), "n"))

	tbl.SetSort(SortState{Key: "n", Dir: SortAsc})
	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, SortState{Key: "n", Dir: SortAsc}, tbl.Sort())

	ext.state = SortState{}
	assert.Equal(t, []any{1, 3, 2}, values(tbl.Visible(), "n"))
}

func TestClickUsesVisibleIndex(t *testing.T) {
	var gotRow row
	gotIndex := -1
	tbl := New(columns("code", "n"), WithRowClick(func(r row, i int) {
		gotRow, gotIndex = r, i
	}))
	tbl.SetRows([]row{{"code": "A", "n": 10}, {"code": "B", "n": 2}, {"code": "C", "n": 5}})
	tbl.SetSort(SortState{Key: "n", Dir: SortAsc})

	require.True(t, tbl.Click(1))
	assert.Equal(t, "C", gotRow["code"])
	assert.Equal(t, 1, gotIndex)

	assert.False(t, tbl.Click(3))
}

func TestCellFormatting(t *testing.T) {
	tbl := New(columns("v"))
	col := keyColumn("v")

	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"", ""},
		{false, ""},
		{0, ""},
		{0.0, ""},
		{true, "true"},
		{42, "42"},
		{1500000.0, "1500000"},
		{"2024-03-05", "05.03.2024"},
		{"2024-03-05T10:11:12", "05.03.2024"},
		{"2024-03-05 10:11:12.123+03:00", "05.03.2024"},
		{"2024-13-45", "2024-13-45"},
		{"05.03.2024", "05.03.2024"},
		{"текст", "текст"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tbl.Cell(row{"v": tc.in}, col), "value %#v", tc.in)
	}

	en := New(columns("v"), WithLocale[row]("en-US"))
	assert.Equal(t, "03/05/2024", en.Cell(row{"v": "2024-03-05"}, col))
}

func TestResetClearsState(t *testing.T) {
	tbl := New(columns("s"))
	tbl.SetRows([]row{{"s": "b"}, {"s": "a"}})
	tbl.SetFilter("s", []string{"a"})
	tbl.SetSort(SortState{Key: "s", Dir: SortAsc})

	tbl.Reset()
	assert.Empty(t, tbl.Filter())
	assert.False(t, tbl.Sort().Active())
	assert.Len(t, tbl.Visible(), 2)
}

func TestParseSortDir(t *testing.T) {
	d, ok := ParseSortDir("desc")
	assert.True(t, ok)
	assert.Equal(t, SortDesc, d)
	_, ok = ParseSortDir("sideways")
	assert.False(t, ok)
	assert.Equal(t, "asc", SortAsc.String())
}
