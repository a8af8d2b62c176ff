package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// MemProvider is an in-memory Provider. Listings are sorted by name so
// discovery order is deterministic in tests.
type MemProvider struct {
	files map[string]string
}

// NewMemProvider creates a MemProvider from path -> content pairs.
func NewMemProvider(files map[string]string) *MemProvider {
	m := &MemProvider{files: make(map[string]string, len(files))}
	for p, c := range files {
		m.Put(p, c)
	}
	return m
}

// Put stores (or replaces) a file.
func (m *MemProvider) Put(path, content string) {
	m.files[normalizePath(path)] = content
}

// Exists reports whether path is a stored file or a directory that holds one.
func (m *MemProvider) Exists(path string) bool {
	p := normalizePath(path)
	if _, ok := m.files[p]; ok {
		return true
	}
	prefix := dirPrefix(p)
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ListDir returns the direct children of path. Like os.ReadDir it fails on a
// directory that does not exist.
func (m *MemProvider) ListDir(path string) ([]string, error) {
	prefix := dirPrefix(normalizePath(path))
	seen := make(map[string]struct{})
	for name := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if rest != "" {
			seen[rest] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns a stored file.
func (m *MemProvider) ReadFile(path string) (string, error) {
	content, ok := m.files[normalizePath(path)]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

func (m *MemProvider) String() string {
	return fmt.Sprintf("MemProvider(%d files)", len(m.files))
}

func dirPrefix(dir string) string {
	if dir == "." || dir == "" {
		return ""
	}
	return strings.TrimSuffix(dir, "/") + "/"
}

func normalizePath(p string) string {
	// единый вид путей независимо от платформы
	return filepath.ToSlash(filepath.Clean(p))
}
