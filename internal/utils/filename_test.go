package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "replaces spaces with underscores",
			input:    "Trip Plan",
			expected: "Trip_Plan",
		},
		{
			name:     "strips double quotes",
			input:    `The "Big" Plan`,
			expected: "The_Big_Plan",
		},
		{
			name:     "keeps other punctuation",
			input:    "Q&A: v2.0 (draft)",
			expected: "Q&A:_v2.0_(draft)",
		},
		{
			name:     "keeps unicode",
			input:    "Pamiętnik znaleziony",
			expected: "Pamiętnik_znaleziony",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "consecutive spaces are not collapsed",
			input:    "a  b",
			expected: "a__b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_Idempotent(t *testing.T) {
	inputs := []string{"Trip Plan", `"quoted" name`, "already_clean", "", "  ", `""`}

	for _, input := range inputs {
		once := SanitizeFilename(input)
		assert.Equal(t, once, SanitizeFilename(once), "input %q", input)
	}
}

func TestUserDirName(t *testing.T) {
	assert.Equal(t, "Jane_Doe", UserDirName("Jane Doe"))
	assert.Equal(t, `Jane_"JD"_Doe`, UserDirName(`Jane "JD" Doe`))
	assert.Equal(t, "solo", UserDirName("solo"))
}

func TestFlattenPathSegment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"a/b", "a_b"},
		{`a\b`, "a_b"},
		{"../etc/passwd", ".._etc_passwd"},
		{"..", "_.."},
		{".", "_."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlattenPathSegment(tt.input))
		})
	}
}
