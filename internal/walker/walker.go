// Package walker recursively enumerates files matching a name/glob pattern,
// honoring exclusion globs and skipping nested repository checkouts.
//
// The concurrency shape (one goroutine per directory, semaphore-limited,
// fanning results into a single collector) is carried over from the
// teacher's internal/scanner package.
package walker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// OnProgress is invoked once per discovered file with its path. It must be
// cheap and non-blocking.
type OnProgress func(path string)

// walker enumerates files under a set of roots matching a basename pattern.
type walker struct {
	pattern    string
	exclusions []string
	workers    int
	onProgress OnProgress

	sem      chan struct{}
	wg       sync.WaitGroup
	resultCh chan string
	errCh    chan error
}

// Find enumerates files under roots whose basename matches pattern,
// skipping any directory matched by an exclusion glob or any directory
// that is a nested repository checkout (a ".git" file, not directory).
//
// Non-fatal per-subdirectory errors (permission denied, vanished directory)
// are swallowed; the subtree is skipped and the walk continues.
func Find(ctx context.Context, roots []string, pattern string, exclusions []string, workers int, onProgress OnProgress) ([]string, error) {
	if workers < 1 {
		workers = 1
	}

	w := &walker{
		pattern:    pattern,
		exclusions: exclusions,
		workers:    workers,
		onProgress: onProgress,
		sem:        make(chan struct{}, workers),
		resultCh:   make(chan string, 1000),
	}

	var results []string
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for r := range w.resultCh {
			results = append(results, r)
		}
	}()

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		w.walkDirectory(ctx, abs)
	}

	w.wg.Wait()
	close(w.resultCh)
	collectorWg.Wait()

	return results, nil
}

func (w *walker) walkDirectory(ctx context.Context, dir string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		select {
		case w.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-w.sem }()

		if ctx.Err() != nil {
			return
		}

		entries, subdirs, err := listDirectory(dir)
		if err != nil {
			return // permission-denied / vanished: swallow, skip subtree
		}

		for _, name := range entries {
			full := filepath.Join(dir, name)
			if matchesPattern(name, w.pattern) {
				w.resultCh <- full
				if w.onProgress != nil {
					w.onProgress(full)
				}
			}
		}

		for _, sub := range subdirs {
			if isSubmodule(sub) {
				continue
			}
			if shouldExclude(sub, w.exclusions) {
				continue
			}
			w.walkDirectory(ctx, sub)
		}
	}()
}

// listDirectory reads one directory, batching ReadDir calls (1000 entries
// per batch) so huge directories don't spike memory use.
func listDirectory(dirPath string) (files []string, subdirs []string, err error) {
	dir, err := os.Open(dirPath)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = dir.Close() }()

	const batchSize = 1000
	for {
		entries, err := dir.ReadDir(batchSize)
		if len(entries) == 0 {
			if err != nil && err != io.EOF {
				return files, subdirs, err
			}
			break
		}
		for _, entry := range entries {
			switch {
			case entry.IsDir():
				subdirs = append(subdirs, filepath.Join(dirPath, entry.Name()))
			case entry.Type().IsRegular():
				files = append(files, entry.Name())
			}
		}
	}
	return files, subdirs, nil
}

// isSubmodule reports whether dir is a nested repository checkout: the
// presence of a ".git" *file* (not directory) is the submodule marker.
func isSubmodule(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// matchesPattern matches the basename pattern (glob-style: '*' and '?')
// against a single filename.
func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	ok, err := filepath.Match(pattern, name)
	if err != nil {
		return false
	}
	return ok
}

// shouldExclude reports whether path matches any exclusion glob, per the
// three interior-component semantics spec'd for exclusions plus a final
// regex fallback.
//
//   - "*/name/*"  matches when any interior directory component equals "name"
//   - "*sub*" (no "/") matches when any path component contains "sub"
//   - "prefix*" (no "/") matches when any path component begins with "prefix"
//   - otherwise, '*'->'.*', '?'->'.' and match as an anchored, DoS-safe regex
func shouldExclude(path string, exclusions []string) bool {
	if len(exclusions) == 0 {
		return false
	}
	norm := filepath.ToSlash(path)
	components := strings.Split(strings.Trim(norm, "/"), "/")

	for _, pattern := range exclusions {
		if matchExclusion(norm, components, pattern) {
			return true
		}
	}
	return false
}

func matchExclusion(normPath string, components []string, pattern string) bool {
	switch {
	case strings.HasPrefix(pattern, "*/") && strings.HasSuffix(pattern, "/*") && strings.Count(pattern, "/") == 2:
		name := pattern[2 : len(pattern)-2]
		for _, c := range components {
			if c == name {
				return true
			}
		}
		return false

	case !strings.Contains(pattern, "/") && strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		needle := pattern[1 : len(pattern)-1]
		for _, c := range components {
			if strings.Contains(c, needle) {
				return true
			}
		}
		return false

	case !strings.Contains(pattern, "/") && strings.HasSuffix(pattern, "*"):
		prefix := pattern[:len(pattern)-1]
		for _, c := range components {
			if strings.HasPrefix(c, prefix) {
				return true
			}
		}
		return false

	default:
		// doublestar handles '**' and standard glob classes; it is tried
		// first since it covers the vast majority of realistic patterns
		// without falling back to ad-hoc regex translation.
		if ok, err := doublestar.Match(pattern, normPath); err == nil && ok {
			return true
		}
		return matchRegexFallback(normPath, pattern)
	}
}

// matchRegexFallback translates '*'->'.*', '?'->'.' and matches as a
// regex anchored end-to-end. Go's regexp package is RE2-based: matching is
// inherently linear in input size, never exponential, so no additional
// backtracking guard is needed beyond the wall-clock timeout below, which
// protects against unexpectedly large inputs rather than catastrophic
// backtracking (RE2 cannot backtrack).
func matchRegexFallback(path, pattern string) bool {
	translated := translateGlobToRegex(pattern)

	type matchResult struct {
		ok  bool
		err error
	}
	done := make(chan matchResult, 1)

	go func() {
		re, err := regexp.Compile("^" + translated + "$")
		if err != nil {
			done <- matchResult{err: err}
			return
		}
		done <- matchResult{ok: re.MatchString(path)}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return strings.Contains(path, stripMeta(pattern))
		}
		return res.ok
	case <-time.After(1 * time.Second):
		return strings.Contains(path, stripMeta(pattern))
	}
}

func translateGlobToRegex(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func stripMeta(pattern string) string {
	return strings.NewReplacer("*", "", "?", "").Replace(pattern)
}
