// Package render turns case, task and document details into terminal
// markdown.
package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

var (
	defaultRenderer *glamour.TermRenderer
	defaultWidth    int
	defaultMu       sync.Mutex
)

// Options controls markdown rendering behaviour.
type Options struct {
	// NoColor renders plain text, wrapped to Width.
	NoColor bool
	Width   int
}

// Markdown renders the provided Markdown string tailored for terminal output.
// It falls back to the source text when rendering fails.
func Markdown(markdown string, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = 100
	}
	r, err := getRenderer(opts)
	if err != nil {
		return wordwrap.String(markdown, opts.Width)
	}
	str, err := r.Render(markdown)
	if err != nil {
		return wordwrap.String(markdown, opts.Width)
	}
	return str
}

func getRenderer(opts Options) (*glamour.TermRenderer, error) {
	if opts.NoColor {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle("notty"),
			glamour.WithColorProfile(termenv.Ascii),
			glamour.WithWordWrap(opts.Width),
		)
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRenderer != nil && defaultWidth == opts.Width {
		return defaultRenderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithColorProfile(termenv.TrueColor),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		return nil, err
	}
	defaultRenderer, defaultWidth = r, opts.Width
	return r, nil
}
