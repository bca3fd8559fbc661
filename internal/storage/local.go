package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalClient serves a directory on the local filesystem.
type LocalClient struct {
	Root string
}

func NewLocalClient(root string) *LocalClient {
	return &LocalClient{Root: root}
}

func (c *LocalClient) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if strings.Contains(clean, "\x00") {
		return "", fmt.Errorf("invalid path: %q", p)
	}
	return filepath.Join(c.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (c *LocalClient) List(ctx context.Context, dir string) ([]FileInfo, error) {
	full, err := c.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", full, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:       entry.Name(),
			Path:       path.Join(dir, entry.Name()),
			IsDir:      entry.IsDir(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return files, nil
}

func (c *LocalClient) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	full, err := c.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Upload writes into a uniquely named sibling file and renames it over the
// destination, so an interrupted write never leaves mixed content behind.
func (c *LocalClient) Upload(ctx context.Context, p string, content io.Reader) error {
	full, err := c.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(full), uuid.NewString()))
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, full); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", p, err)
	}
	return nil
}

func (c *LocalClient) Exists(ctx context.Context, p string) (bool, error) {
	full, err := c.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// EnsureRoot creates the root directory if it doesn't exist.
func (c *LocalClient) EnsureRoot() error {
	if err := os.MkdirAll(c.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Root, err)
	}
	return nil
}

var _ Client = (*LocalClient)(nil)
