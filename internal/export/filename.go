package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/legaldesk/casectl/internal/util"
)

// DefaultFilenameTemplate names exports like "rainbow-analysis_2024-03-05_101112.xlsx".
const DefaultFilenameTemplate = `{{ .Report }}_{{ .Now | date "2006-01-02_150405" }}.xlsx`

// characters Windows refuses in file names
const reservedChars = `<>:"/\|?*`

// FilenameData is the data available to filename templates.
type FilenameData struct {
	Report string
	Now    time.Time
	// Extra carries command specific values, for example the executor.
	Extra map[string]string
	// Ext is the extension the name must end with. Empty means .xlsx.
	Ext string
}

// Filename renders a local file name for an export. The server never picks
// the name. The result is reduced to a bare file name and gets the Ext
// extension when the template leaves it out or picks another one.
func Filename(tmpl string, data FilenameData) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultFilenameTemplate
	}
	t, err := template.New("filename").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse filename template: %w", err)
	}
	if data.Now.IsZero() {
		data.Now = time.Now()
	}
	data.Report = util.GenerateSlug(data.Report)

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render filename template: %w", err)
	}

	name := filepath.Base(strings.TrimSpace(buf.String()))
	ext := filepath.Ext(name)
	stem := strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(reservedChars, r) {
			return -1
		}
		return r
	}, strings.TrimSuffix(name, ext)))
	if stem == "" {
		return "", fmt.Errorf("filename template %q rendered an empty name", tmpl)
	}
	want := data.Ext
	if want == "" {
		want = ".xlsx"
	}
	if !strings.EqualFold(ext, want) {
		ext = want
	}
	return stem + ext, nil
}
