package util

import "testing"

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Main",
			expected: "main",
		},
		{
			name:     "title with spaces",
			title:    "Detailed Report",
			expected: "detailed-report",
		},
		{
			name:     "cyrillic is kept",
			title:    "Иванов Иван",
			expected: "иванов-иван",
		},
		{
			name:     "path separators are removed",
			title:    "ГОСБ 1 / Отдел",
			expected: "госб-1-отдел",
		},
		{
			name:     "accents are stripped",
			title:    "Café Résumé",
			expected: "cafe-resume",
		},
		{
			name:     "underscores become hyphens",
			title:    "all_processed_data",
			expected: "all-processed-data",
		},
		{
			name:     "leading and trailing junk",
			title:    "  ..report!!  ",
			expected: "report",
		},
		{
			name:     "parent directory reference",
			title:    "../../etc",
			expected: "etc",
		},
		{
			name:     "empty",
			title:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateSlug(tt.title); got != tt.expected {
				t.Errorf("GenerateSlug(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}
