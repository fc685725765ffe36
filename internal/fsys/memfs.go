package fsys

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemFS is an in-memory FS implementation for tests, per Design Notes
// §9's explicit requirement for a real and an in-memory filesystem
// implementation behind the same capability interface.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]string
	dirs  map[string]bool
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]string), dirs: map[string]bool{"/": true}}
}

// Seed populates the filesystem with a file's initial content, creating
// any missing parent directories.
func (m *MemFS) Seed(filePath string, lines []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filePath] = append([]string(nil), lines...)
	m.markDirs(path.Dir(filePath))
}

func (m *MemFS) markDirs(dir string) {
	for dir != "." && dir != "/" && dir != "" {
		m.dirs[dir] = true
		dir = path.Dir(dir)
	}
	m.dirs["/"] = true
}

func (m *MemFS) ReadLines(p string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("memfs: no such file %s", p)
	}
	return append([]string(nil), lines...), nil
}

func (m *MemFS) WriteText(p string, lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = append([]string(nil), lines...)
	m.markDirs(path.Dir(p))
	return nil
}

func (m *MemFS) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; ok {
		return true
	}
	return m.dirs[p]
}

func (m *MemFS) MkdirAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markDirs(p)
	return nil
}

func (m *MemFS) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok {
		return fmt.Errorf("memfs: no such file %s", p)
	}
	delete(m.files, p)
	return nil
}

func (m *MemFS) ListFiles(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p := range m.files {
		if path.Dir(p) == dir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemFS) ListDirs(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for d := range m.dirs {
		if path.Dir(d) == dir && d != dir {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemFS) RelativePath(base, target string) (string, error) {
	if !strings.HasPrefix(target, base) {
		return target, nil
	}
	rel := strings.TrimPrefix(target, base)
	return strings.TrimPrefix(rel, "/"), nil
}
