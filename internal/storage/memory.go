package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryClient keeps files in memory. It backs dry runs and tests.
type MemoryClient struct {
	mu    sync.RWMutex
	files map[string][]byte
	now   func() time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		files: make(map[string][]byte),
		now:   time.Now,
	}
}

func normalize(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Put stores a file directly.
func (c *MemoryClient) Put(p string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[normalize(p)] = append([]byte(nil), content...)
}

// Get returns file content and whether it exists.
func (c *MemoryClient) Get(p string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.files[normalize(p)]
	return content, ok
}

// Paths returns every stored file path, sorted.
func (c *MemoryClient) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (c *MemoryClient) List(ctx context.Context, dir string) ([]FileInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prefix := normalize(dir)
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]FileInfo)
	for p, content := range c.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if _, ok := seen[name]; ok {
			continue
		}
		info := FileInfo{Name: name, Path: prefix + name, IsDir: nested, ModifiedAt: c.now()}
		if !nested {
			info.Size = int64(len(content))
		}
		seen[name] = info
	}

	files := make([]FileInfo, 0, len(seen))
	for _, info := range seen {
		files = append(files, info)
	}
	SortByName(files)
	return files, nil
}

func (c *MemoryClient) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	content, ok := c.Get(p)
	if !ok {
		return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (c *MemoryClient) Upload(ctx context.Context, p string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[normalize(p)] = data
	return nil
}

func (c *MemoryClient) Exists(ctx context.Context, p string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := normalize(p)
	if _, ok := c.files[key]; ok {
		return true, nil
	}
	for existing := range c.files {
		if strings.HasPrefix(existing, key+"/") {
			return true, nil
		}
	}
	return false, nil
}

var _ Client = (*MemoryClient)(nil)
