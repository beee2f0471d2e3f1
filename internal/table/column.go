package table

// Align is the horizontal alignment of a column's cells.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Column describes one column of a Table over rows of type R.
// Columns are immutable once handed to New.
type Column[R any] struct {
	// Key identifies the column and must be unique within a table.
	Key string
	// Title is the header text.
	Title string
	// Width is a preferred width in cells. Zero lets the renderer decide.
	Width int
	// Unsortable hides the sort/filter control for the column.
	Unsortable bool
	Align      Align
	// Value reads the column's raw value from a row. A nil Value or a nil
	// result renders as an empty cell.
	Value func(R) any
}

// Sortable reports whether the column exposes a sort/filter control.
func (c Column[R]) Sortable() bool {
	return !c.Unsortable
}

func (c Column[R]) value(row R) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(row)
}
