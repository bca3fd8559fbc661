package utils

import "strings"

// SanitizeFilename turns a conversation name into a filename stem:
// spaces become underscores and double quotes are dropped. Other
// characters pass through untouched, so distinct names may still collide.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "\"", "")
}

// UserDirName derives the per-user output directory from a full name.
func UserDirName(fullName string) string {
	return strings.ReplaceAll(fullName, " ", "_")
}

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// FlattenPathSegment keeps a name inside a single path segment: path
// separators become underscores and "." or ".." gain an underscore prefix.
func FlattenPathSegment(name string) string {
	name = separatorReplacer.Replace(name)
	if name == "." || name == ".." {
		return "_" + name
	}
	return name
}
