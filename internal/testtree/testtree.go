// Package testtree builds declarative directory trees for nsync's test
// suites and asserts post-merge outcomes against them.
//
// It is adapted from the teacher's internal/testfs harness: the same
// "declarative spec + t.TempDir()" shape (each file is written whole), but
// retargeted at nsync's domain. The teacher's FileTree/Volume model
// exists to prove hardlink/symlink *identity* (same inode, possibly
// across device boundaries); nsync never establishes or inspects
// inode identity, so Volumes, Chunks, Symlinks, and the Docker/tmpfs
// E2E mode have no nsync equivalent and are dropped. What nsync tests
// need instead is: several directories each holding one *version* of a
// basename, built quickly, then asserted by content after grouping or
// merging.
package testtree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Version describes one directory's copy of a basename, along with its
// textual content (grouping and merging both operate on lines).
type Version struct {
	Dir     string // relative to the tree root, e.g. "left" or "configs/prod"
	Name    string // basename, e.g. "app.yaml"
	Content string
}

// Tree is a flat list of versions to materialize under a root directory.
// Subdirectories are created automatically (mkdir -p semantics), mirroring
// the teacher's sowFile behavior.
type Tree struct {
	Versions []Version
}

// Build materializes spec under root, returning the absolute path of
// every file written, in the order given.
func Build(root string, spec Tree) ([]string, error) {
	paths := make([]string, 0, len(spec.Versions))
	for _, v := range spec.Versions {
		dir := filepath.Join(root, filepath.FromSlash(v.Dir))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
		path := filepath.Join(dir, v.Name)
		if err := os.WriteFile(path, []byte(v.Content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Expectation describes the content a basename should have at a set of
// directories after a merge/reconciliation run.
type Expectation struct {
	Name  string
	Dirs  []string // relative to root; all must hold identical content
	Equal string   // expected content at each of Dirs
}

// Assert reads the file named Name under each of Dirs (relative to root)
// and reports every mismatch, rather than failing fast on the first one —
// mirroring the teacher's AssertFiles, which accumulates one t.Errorf per
// broken invariant instead of aborting the whole assertion.
func Assert(root string, expectations []Expectation) []error {
	var errs []error
	for _, exp := range expectations {
		for _, dir := range exp.Dirs {
			path := filepath.Join(root, filepath.FromSlash(dir), exp.Name)
			got, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			if string(got) != exp.Equal {
				errs = append(errs, fmt.Errorf("%s: content mismatch:\n got:  %q\n want: %q", path, got, exp.Equal))
			}
		}
	}
	return errs
}

// ListBasenames returns the sorted, de-duplicated set of basenames present
// in spec — useful for asserting a Grouper or Batch run saw exactly the
// basenames a test set up.
func ListBasenames(spec Tree) []string {
	seen := make(map[string]bool)
	for _, v := range spec.Versions {
		seen[v.Name] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
