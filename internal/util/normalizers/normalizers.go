// Package normalizers tidies the help text of commands written as indented
// raw strings.
package normalizers

import (
	"strings"
)

const Indentation = `  `

// LongDesc trims a long description and removes the indentation shared by
// its lines, so paragraphs and lists keep their relative layout.
func LongDesc(s string) string {
	return strings.Join(dedent(strings.TrimSpace(s)), "\n")
}

// Examples dedents the examples block and indents every line by
// Indentation. Blank lines stay empty.
func Examples(s string) string {
	s = strings.TrimRight(strings.TrimLeft(s, "\n"), " \t\n")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	lines := dedent(s)
	for i, line := range lines {
		if line != "" {
			lines[i] = Indentation + line
		}
	}
	return strings.Join(lines, "\n")
}

// dedent strips the common leading whitespace of the non-blank lines after
// the first; the first line is usually already trimmed.
func dedent(s string) []string {
	lines := strings.Split(s, "\n")
	prefix := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		if i == 0 && line == strings.TrimLeft(line, " \t") && len(lines) > 1 {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
		if i == 0 && lines[i] == strings.TrimLeft(lines[i], " \t") {
			continue
		}
		if prefix > 0 && len(lines[i]) >= prefix {
			lines[i] = lines[i][prefix:]
		}
	}
	return lines
}
