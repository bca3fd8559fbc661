package claude

import (
	"slices"
	"strings"
	"time"

	"github.com/mrlokans/transcripts/internal/storage"
)

const exportDateLayout = "20060102150405"

// ExportDate extracts the date token embedded in an export filename, the
// second "-"-separated component (e.g. "export-20240102100000-1.json").
// The component is parsed as-is, so "conversations-20240102100000.json"
// carries ".json" in its token and yields the zero time, as do names
// without a token.
func ExportDate(filename string) time.Time {
	parts := strings.Split(filename, "-")
	if len(parts) < 2 {
		return time.Time{}
	}

	date, err := time.Parse(exportDateLayout, parts[1])
	if err != nil {
		return time.Time{}
	}
	return date
}

// SortExportFiles orders export files by their embedded date, oldest first.
// Files without a date sort first; ties are broken by name.
func SortExportFiles(files []storage.FileInfo) {
	slices.SortStableFunc(files, func(a, b storage.FileInfo) int {
		if c := ExportDate(a.Name).Compare(ExportDate(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
