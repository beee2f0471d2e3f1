package tableview

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	cmdcommon "github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	cfgpkg "github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/theme"
)

type caseRow struct {
	Code     string
	Executor string
	Amount   int
}

func caseTable(opts ...table.Option[caseRow]) *table.Table[caseRow] {
	t := table.New([]table.Column[caseRow]{
		{Key: "code", Title: "Код дела", Value: func(r caseRow) any { return r.Code }},
		{Key: "executor", Title: "Исполнитель", Value: func(r caseRow) any { return r.Executor }},
		{Key: "amount", Title: "Сумма", Align: table.AlignRight, Unsortable: true, Value: func(r caseRow) any { return r.Amount }},
	}, opts...)
	t.SetRows([]caseRow{
		{"B-1", "Петров", 300},
		{"A-2", "Иванов", 0},
		{"A-1", "Иванов", 100},
	})
	return t
}

func testModel(t *testing.T, tbl *table.Table[caseRow], opts ...Option[caseRow]) *model[caseRow] {
	t.Helper()
	var cfg config[caseRow]
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(context.Background(), tbl, cfg, theme.Current(), 100, 30, io.Discard)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func codes(rows []caseRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Code
	}
	return out
}

func TestWriteStatic(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteStatic(&out, caseTable(), "Дела", "3 rows", 80))

	text := ansi.Strip(out.String())
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Дела", lines[0])
	assert.Contains(t, lines[1], "Код дела")
	assert.Contains(t, lines[2], "─")
	assert.Contains(t, lines[3], "B-1")
	assert.NotContains(t, lines[4], "0", "falsy values render empty")
	assert.Equal(t, "3 rows", lines[6])
}

func TestWriteStaticEmptyRowsKeepsHeaders(t *testing.T) {
	tbl := caseTable()
	tbl.SetRows(nil)
	var out bytes.Buffer
	require.NoError(t, WriteStatic(&out, tbl, "", "", 80))
	assert.Contains(t, out.String(), "Исполнитель")
}

func TestWriteStaticLoading(t *testing.T) {
	tbl := caseTable()
	tbl.SetLoading(true, "Загрузка…")
	var out bytes.Buffer
	require.NoError(t, WriteStatic(&out, tbl, "", "", 80))
	assert.Equal(t, "Загрузка…\n", out.String())
}

func TestColumnWidthsShrinkWidest(t *testing.T) {
	cols := []table.Column[caseRow]{{Title: "a", Width: 30}, {Title: "b", Width: 10}}
	widths := columnWidths(cols, nil, 31, 1)
	assert.Equal(t, []int{20, 10}, widths)
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4, table.AlignLeft))
	assert.Equal(t, "  ab", fit("ab", 4, table.AlignRight))
	assert.Equal(t, " ab ", fit("ab", 4, table.AlignCenter))
	assert.Equal(t, "abc…", fit("abcdef", 4, table.AlignLeft))
}

func TestOverlay(t *testing.T) {
	base := "aaaaaa\nbbbbbb\ncccccc"
	got := overlay(base, "XX\nYY", 2, 1)
	assert.Equal(t, "aaaaaa\nbbXXbb\nccYYcc", got)
}

func TestSearchNarrowsRows(t *testing.T) {
	m := testModel(t, caseTable())
	m.Update(runes("/"))
	require.Equal(t, modeSearch, m.mode)
	m.Update(runes("иван"))
	assert.Equal(t, []string{"A-2", "A-1"}, codes(m.rows))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeTable, m.mode)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.rows, 3, "esc clears an active search first")
}

func TestFilterThroughPopupKeys(t *testing.T) {
	tbl := caseTable()
	m := testModel(t, tbl)

	m.Update(runes("f"))
	require.Equal(t, modePopup, m.mode)
	require.True(t, m.popup.IsOpen())
	assert.Equal(t, len(sortItems), m.popupCursor, "cursor starts on the first option")

	m.Update(runes("x"))
	assert.Equal(t, []string{"A-1"}, m.popup.Pending())
	assert.Empty(t, tbl.Filter(), "pending edits are not committed")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, []string{"A-1"}, codes(m.rows))
	assert.Contains(t, m.View(), "●")
}

func TestHeaderClickOpensControlAndOutsideClickDismisses(t *testing.T) {
	tbl := caseTable()
	m := testModel(t, tbl)

	r := m.headerRect(1)
	m.Update(click(r.X+1, headerLine))
	require.Equal(t, modePopup, m.mode)
	assert.Equal(t, "executor", m.popup.Key())
	assert.Equal(t, 1, m.col)

	m.Update(runes("x"))
	ctrl := m.popup
	m.Update(click(m.popupRect.X+m.popupRect.W+5, m.popupRect.Y+m.popupRect.H+2))
	assert.Equal(t, modeTable, m.mode)
	assert.False(t, ctrl.IsOpen())
	assert.Empty(t, tbl.Filter())
}

func TestUnsortableColumnHasNoControl(t *testing.T) {
	m := testModel(t, caseTable())
	m.Update(click(m.headerRect(2).X+1, headerLine))
	assert.Equal(t, modeTable, m.mode)
	assert.Contains(t, m.status, "cannot be sorted")
}

func TestPopupClickSortsDescending(t *testing.T) {
	tbl := caseTable()
	m := testModel(t, tbl)
	m.Update(runes("f"))
	m.Update(click(m.popupRect.X+3, m.popupRect.Y+2))

	assert.Equal(t, table.SortState{Key: "code", Dir: table.SortDesc}, tbl.Sort())
	assert.Equal(t, []string{"B-1", "A-2", "A-1"}, codes(m.rows))
	assert.Equal(t, modeTable, m.mode)
}

func TestPopupSearchNarrowsOptions(t *testing.T) {
	m := testModel(t, caseTable())
	m.col = 1
	m.Update(runes("f"))
	m.Update(runes("/"))
	require.Equal(t, modePopupSearch, m.mode)
	m.Update(runes("пет"))
	opts := m.popup.VisibleOptions()
	require.Len(t, opts, 1)
	assert.Equal(t, "Петров", opts[0].Value)
}

func TestEnterInvokesRowCallbackAndLoadsDetail(t *testing.T) {
	var clicked []string
	tbl := caseTable(table.WithRowClick(func(r caseRow, _ int) { clicked = append(clicked, r.Code) }))
	tbl.SetSort(table.SortState{Key: "code", Dir: table.SortAsc})

	m := testModel(t, tbl, WithTitle[caseRow]("Дела"), WithDetail(func(_ context.Context, r caseRow) (string, error) {
		return "# " + r.Code, nil
	}))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"A-2"}, clicked)
	assert.True(t, m.loading)

	m.Update(detailLoadedMsg{content: "# A-2"})
	assert.Equal(t, modeDetail, m.mode)
	assert.Contains(t, ansi.Strip(m.View()), "A-2")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeTable, m.mode)
}

func TestRowClickSelectsAndOpens(t *testing.T) {
	var clicked []string
	tbl := caseTable(table.WithRowClick(func(r caseRow, _ int) { clicked = append(clicked, r.Code) }))
	m := testModel(t, tbl)

	m.Update(click(2, bodyTop+2))
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, []string{"A-1"}, clicked)
}

func TestCopyFallsBackStatus(t *testing.T) {
	var copied string
	orig := copyText
	copyText = func(_ io.Writer, s string) { copied = s }
	t.Cleanup(func() { copyText = orig })

	m := testModel(t, caseTable())
	m.Update(runes("y"))
	assert.Equal(t, "B-1\tПетров\t300", copied)
	assert.Equal(t, "Copied row to clipboard", m.status)
}

func TestSaveWritesVisibleRows(t *testing.T) {
	dir := t.TempDir()
	m := testModel(t, caseTable(), WithSave[caseRow](dir, "cases", "{{ .Report }}.xlsx"))
	m.Update(runes("s"))

	assert.Contains(t, m.status, "Saved 3 rows")
	_, err := os.Stat(filepath.Join(dir, "cases.xlsx"))
	assert.NoError(t, err)
}

func TestSaveUnavailable(t *testing.T) {
	m := testModel(t, caseTable())
	m.Update(runes("s"))
	assert.Contains(t, m.status, "not available")
}

func TestThemeCycles(t *testing.T) {
	m := testModel(t, caseTable())
	before := m.palette.Name
	m.Update(runes("t"))
	if len(m.themes) > 1 {
		assert.NotEqual(t, before, m.palette.Name)
	}
	assert.Contains(t, m.status, "Theme:")
}

func TestResetClearsState(t *testing.T) {
	tbl := caseTable()
	tbl.SetFilter("executor", []string{"Иванов"})
	m := testModel(t, tbl)
	require.Len(t, m.rows, 2)
	m.Update(runes("r"))
	assert.Len(t, m.rows, 3)
}

func newHelper(t *testing.T, args ...string) (cmdpkg.Helper, *bytes.Buffer) {
	t.Helper()
	streams, _, out, _ := iostreams.NewTestIOStreams()
	cfg := cfgpkg.BuildProfiledConfig("default", filepath.Join(t.TempDir(), "config.yaml"), v.New())

	c := &cobra.Command{Use: "rainbow"}
	jqoutput.AddFlags(c.Flags())
	require.NoError(t, c.Flags().Parse(args))
	ctx := context.WithValue(context.Background(), cfgpkg.ConfigKey, cfgpkg.Hook(cfg))
	ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
	c.SetContext(ctx)
	return cmdpkg.BuildHelper(c, nil), out
}

func TestRenderForFormatText(t *testing.T) {
	helper, out := newHelper(t)
	require.NoError(t, RenderForFormat[caseRow](helper, cmdcommon.TEXT, nil, caseTable(), nil,
		WithTitle[caseRow]("Дела")))
	assert.Contains(t, out.String(), "Петров")
}

func TestRenderForFormatJQRaw(t *testing.T) {
	helper, out := newHelper(t, "--jq", ".[].Code", "-r")
	raw := []caseRow{{Code: "A-1"}, {Code: "A-2"}}
	require.NoError(t, RenderForFormat[caseRow](helper, cmdcommon.JSON, nil, caseTable(), raw))
	assert.Equal(t, "A-1\nA-2\n", out.String())
}

func TestRenderForFormatJQRejectsText(t *testing.T) {
	helper, _ := newHelper(t, "--jq", ".")
	err := RenderForFormat[caseRow](helper, cmdcommon.TEXT, nil, caseTable(), nil)
	var cfgErr *cmdpkg.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
