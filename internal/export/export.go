// Package export writes report spreadsheets to disk: server produced blobs as
// they are and locally built tables through excelize.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/legaldesk/casectl/internal/util"
	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

const (
	dirMode  = 0o700
	fileMode = 0o600

	defaultSheet = "Sheet1"
	maxColWidth  = 60.0
	minColWidth  = 8.0
)

// WriteBlob saves data as dir/name and returns the full path. Existing files
// are replaced.
func WriteBlob(dir, name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid export file name %q", name)
	}
	dir = util.ExpandHome(dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return "", fmt.Errorf("chmod export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move export into place: %w", err)
	}
	return path, nil
}

// Sheet is a rectangular table to be written as a worksheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// WriteXLSX writes sheets as a workbook to w. The header row is bold and
// column widths follow the widest cell.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#EAEEF2"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		name := sheetName(sh.Name, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, sh, headerStyle); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// XLSXBytes is WriteXLSX into memory.
func XLSXBytes(sheets ...Sheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sheets...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, sh Sheet, headerStyle int) error {
	widths := make([]int, len(sh.Headers))
	header := make([]any, len(sh.Headers))
	for i, h := range sh.Headers {
		header[i] = h
		widths[i] = runewidth.StringWidth(h)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(sh.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sh.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for r, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
		for c, v := range row {
			if c < len(widths) {
				widths[c] = max(widths[c], runewidth.StringWidth(fmt.Sprint(v)))
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := min(max(float64(w)+2, minColWidth), maxColWidth)
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

// sheet names are limited to 31 characters and may not contain []:*?/\
func sheetName(name string, index int) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
