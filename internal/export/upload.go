package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile is returned for uploads that are not Excel workbooks.
var ErrUnsupportedFile = errors.New("only .xlsx and .xls files are supported")

// ValidateUpload checks that path is a readable Excel file before it is sent
// to the backend. .xlsx files are opened to catch corrupt workbooks early;
// legacy .xls files are only checked for existence.
func ValidateUpload(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if ext == ".xls" {
		return nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("%s is not a valid workbook: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if len(f.GetSheetList()) == 0 {
		return fmt.Errorf("%s has no sheets", filepath.Base(path))
	}
	return nil
}
