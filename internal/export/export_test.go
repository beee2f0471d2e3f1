package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 11, 12, 0, time.Local)

	tests := []struct {
		name string
		tmpl string
		data FilenameData
		want string
	}{
		{
			name: "default template",
			data: FilenameData{Report: "Rainbow Analysis", Now: now},
			want: "rainbow-analysis_2024-03-05_101112.xlsx",
		},
		{
			name: "cyrillic report name",
			tmpl: `{{ .Report }}.xlsx`,
			data: FilenameData{Report: "Отчёт по задачам", Now: now},
			want: "отчет-по-задачам.xlsx",
		},
		{
			name: "extension added",
			tmpl: `tasks-{{ .Extra.executor }}`,
			data: FilenameData{Extra: map[string]string{"executor": "Ivanov"}, Now: now},
			want: "tasks-Ivanov.xlsx",
		},
		{
			name: "directories stripped",
			tmpl: `../../etc/{{ .Report }}.xlsx`,
			data: FilenameData{Report: "x", Now: now},
			want: "x.xlsx",
		},
		{
			name: "zip archive",
			data: FilenameData{Report: "all-analysis", Now: now, Ext: ".zip"},
			want: "all-analysis_2024-03-05_101112.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filename(tt.tmpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameErrors(t *testing.T) {
	_, err := Filename(`{{ .Report`, FilenameData{})
	require.Error(t, err)

	_, err = Filename(`{{ .Missing }}`, FilenameData{})
	require.Error(t, err)

	_, err = Filename(`   .xlsx`, FilenameData{})
	require.Error(t, err)
}

func TestWriteBlob(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := WriteBlob(dir, "report.xlsx", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.xlsx"), path)

	path, err = WriteBlob(dir, "report.xlsx", []byte("two"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = WriteBlob(dir, "../escape.xlsx", nil)
	require.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf,
		Sheet{
			Name:    "Cases",
			Headers: []string{"Case", "Court", "Days"},
			Rows: [][]any{
				{"A-1", "Moscow", 12},
				{"A-2", "Kazan", 3},
			},
		},
		Sheet{Name: "a/b:c", Headers: []string{"Only"}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Cases", "a_b_c"}, f.GetSheetList())

	rows, err := f.GetRows("Cases")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Case", "Court", "Days"},
		{"A-1", "Moscow", "12"},
		{"A-2", "Kazan", "3"},
	}, rows)

	styleID, err := f.GetCellStyle("Cases", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	require.Error(t, WriteXLSX(&bytes.Buffer{}))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet3", sheetName("  ", 2))
	assert.Len(t, []rune(sheetName("Очень длинное название листа книги", 0)), 31)
}

func TestValidateUpload(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "cases.xlsx")
	data, err := XLSXBytes(Sheet{Name: "Data", Headers: []string{"Case"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(good, data, 0o600))
	require.NoError(t, ValidateUpload(good))

	legacy := filepath.Join(dir, "old.XLS")
	require.NoError(t, os.WriteFile(legacy, []byte("legacy"), 0o600))
	require.NoError(t, ValidateUpload(legacy))

	corrupt := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o600))
	require.Error(t, ValidateUpload(corrupt))

	err = ValidateUpload(filepath.Join(dir, "notes.csv"))
	require.ErrorIs(t, err, ErrUnsupportedFile)

	require.Error(t, ValidateUpload(filepath.Join(dir, "missing.xlsx")))
}
