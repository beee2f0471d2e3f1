package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// leadingKeys are printed right after the summary, in this order. The rest
// follow sorted by key.
var leadingKeys = []string{"suggestion", "status", "endpoint", "task", "step"}

// NewFriendlyErrorHandler returns a handler that prints error records as a
// short "Error: ..." block for the terminal.
func NewFriendlyErrorHandler(w io.Writer) slog.Handler {
	return &friendlyHandler{w: w}
}

type friendlyHandler struct {
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

type attrEntry struct {
	key   string
	value string
}

func (h *friendlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *friendlyHandler) Handle(_ context.Context, record slog.Record) error {
	entries := h.collectEntries(record)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", summary(record.Message, entries))
	for _, entry := range ordered(entries) {
		writeEntry(&sb, entry)
	}
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// summary prefers the record message, then the "error" attribute.
func summary(msg string, entries []attrEntry) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	for _, e := range entries {
		if e.key == "error" && e.value != "" {
			return e.value
		}
	}
	return "an unknown error occurred"
}

func ordered(entries []attrEntry) []attrEntry {
	out := make([]attrEntry, 0, len(entries))
	for _, key := range leadingKeys {
		for _, e := range entries {
			if e.key == key && e.value != "" {
				out = append(out, e)
			}
		}
	}
	rest := slices.DeleteFunc(slices.Clone(entries), func(e attrEntry) bool {
		return e.value == "" || e.key == "error" || slices.Contains(leadingKeys, e.key)
	})
	slices.SortStableFunc(rest, func(a, b attrEntry) int { return strings.Compare(a.key, b.key) })
	return append(out, rest...)
}

func (h *friendlyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *friendlyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *friendlyHandler) clone() *friendlyHandler {
	return &friendlyHandler{
		w:      h.w,
		attrs:  slices.Clone(h.attrs),
		groups: slices.Clone(h.groups),
	}
}

func (h *friendlyHandler) collectEntries(record slog.Record) []attrEntry {
	entries := make([]attrEntry, 0, len(h.attrs)+record.NumAttrs())
	add := func(attr slog.Attr) bool {
		entries = append(entries, attrEntry{
			key:   h.fullKey(attr.Key),
			value: valueString(attr.Value.Resolve()),
		})
		return true
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	record.Attrs(add)
	return entries
}

func (h *friendlyHandler) fullKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(append(slices.Clone(h.groups), key), ".")
}

func valueString(val slog.Value) string {
	switch val.Kind() {
	case slog.KindGroup:
		group := val.Group()
		parts := make([]string, 0, len(group))
		for _, attr := range group {
			parts = append(parts, attr.Key+"="+valueString(attr.Value.Resolve()))
		}
		return strings.Join(parts, ", ")
	case slog.KindAny:
		if err, ok := val.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(val.Any())
	default:
		return val.String()
	}
}

func writeEntry(sb *strings.Builder, entry attrEntry) {
	lines := strings.Split(strings.TrimSpace(entry.value), "\n")
	fmt.Fprintf(sb, "  %s: %s\n", entry.key, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fmt.Fprintf(sb, "    %s\n", trimmed)
		}
	}
}
