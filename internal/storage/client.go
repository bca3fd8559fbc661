package storage

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"time"
)

// FileInfo contains metadata about a file or directory in a storage root
type FileInfo struct {
	Name       string
	Path       string // slash-separated, relative to the client root
	IsDir      bool
	Size       int64
	ModifiedAt time.Time
}

// Client is the file source/sink boundary of the conversion pipeline.
// Paths are slash-separated and relative to the client's root.
type Client interface {
	// List returns entries in the specified directory path ("" or "." for the root)
	List(ctx context.Context, dir string) ([]FileInfo, error)

	// Download retrieves the contents of a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Upload replaces the file at path with content, creating parent
	// directories. Readers never observe a partially written file.
	Upload(ctx context.Context, path string, content io.Reader) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)
}

// ReadAll downloads a whole file into memory.
func ReadAll(ctx context.Context, client Client, path string) ([]byte, error) {
	reader, err := client.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// WriteString uploads a string as the new content of path.
func WriteString(ctx context.Context, client Client, path, content string) error {
	return client.Upload(ctx, path, strings.NewReader(content))
}

// FilterFiles filters file list by a predicate function
func FilterFiles(files []FileInfo, predicate func(FileInfo) bool) []FileInfo {
	var filtered []FileInfo
	for _, f := range files {
		if predicate(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// WithExtension matches regular files whose name ends with ext.
func WithExtension(ext string) func(FileInfo) bool {
	return func(f FileInfo) bool {
		return !f.IsDir && strings.HasSuffix(f.Name, ext)
	}
}

// MatchingGlob matches regular files whose name matches a shell pattern.
func MatchingGlob(pattern string) func(FileInfo) bool {
	return func(f FileInfo) bool {
		if f.IsDir {
			return false
		}
		ok, err := path.Match(pattern, f.Name)
		return err == nil && ok
	}
}

// SortByName orders files lexicographically by name.
func SortByName(files []FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
