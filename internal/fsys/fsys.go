// Package fsys abstracts the filesystem operations the core pipeline needs
// behind a small capability interface, so the core never calls OS
// primitives directly (Design Notes, spec.md §9). OSFS implements it over
// the real filesystem; MemFS (in memfs.go) implements it in memory for
// tests of the pure-logic packages.
package fsys

import (
	"os"
	"path/filepath"
	"strings"
)

// FS is the filesystem capability surface the core pipeline depends on.
type FS interface {
	ReadLines(path string) ([]string, error)
	WriteText(path string, lines []string) error
	Exists(path string) bool
	MkdirAll(path string) error
	Remove(path string) error
	ListFiles(dir string) ([]string, error)
	ListDirs(dir string) ([]string, error)
	RelativePath(base, target string) (string, error)
}

// OSFS implements FS over the real operating system filesystem.
type OSFS struct{}

// NewOSFS returns an FS backed by the real filesystem.
func NewOSFS() OSFS { return OSFS{} }

func (OSFS) ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

// WriteText joins lines with the platform newline and writes atomically:
// write to a sibling temp file, then rename over the target (§5 ordering
// guarantee: readers see either the pre-merge or post-merge content, never
// a truncated intermediate).
func (OSFS) WriteText(path string, lines []string) error {
	text := strings.Join(lines, newline())
	if len(lines) > 0 {
		text += newline()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nsync-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFS) MkdirAll(path string) error { return os.MkdirAll(path, 0o755) }

func (OSFS) Remove(path string) error { return os.Remove(path) }

func (OSFS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func (OSFS) ListDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func (OSFS) RelativePath(base, target string) (string, error) {
	return filepath.Rel(base, target)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func newline() string {
	return "\n"
}
