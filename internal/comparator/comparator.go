// Package comparator classifies files shared between two directory trees
// as same, modified, or present in only one side. It is self-contained:
// unlike the rest of the pipeline it never consumes or produces
// FileGroups, since there is no merging step, only classification.
//
// Grounded on the teacher's internal/scanner for the walking shape and
// internal/differ's whitespace-ignoring identity predicate for the
// same/modified decision.
package comparator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nsync-tools/nsync/internal/differ"
	"github.com/nsync-tools/nsync/internal/fsys"
	"github.com/nsync-tools/nsync/internal/walker"
)

// Result holds the classification of every relative path found under
// either root.
type Result struct {
	Same     []string
	Modified []string
	OnlyInA  []string
	OnlyInB  []string
}

// Compare walks rootA and rootB for files matching pattern and classifies
// every relative path found under either root. Both trees are always
// walked in full; when recursive is false, the results are then filtered
// to each root's direct children.
func Compare(ctx context.Context, fs fsys.FS, rootA, rootB, pattern string, recursive bool) (Result, error) {
	filesA, err := walker.Find(ctx, []string{rootA}, pattern, nil, 1, nil)
	if err != nil {
		return Result{}, fmt.Errorf("walk %s: %w", rootA, err)
	}
	filesB, err := walker.Find(ctx, []string{rootB}, pattern, nil, 1, nil)
	if err != nil {
		return Result{}, fmt.Errorf("walk %s: %w", rootB, err)
	}

	relA, err := relativize(rootA, filesA)
	if err != nil {
		return Result{}, err
	}
	relB, err := relativize(rootB, filesB)
	if err != nil {
		return Result{}, err
	}

	if !recursive {
		relA = directChildrenOnly(relA)
		relB = directChildrenOnly(relB)
	}

	var result Result
	for rel, absA := range relA {
		absB, ok := relB[rel]
		if !ok {
			result.OnlyInA = append(result.OnlyInA, rel)
			continue
		}

		linesA, errA := fs.ReadLines(absA)
		linesB, errB := fs.ReadLines(absB)
		if errA != nil || errB != nil {
			// Unreadable common files are classified as modified (§4.9).
			result.Modified = append(result.Modified, rel)
			continue
		}
		if differ.Identical(linesA, linesB) {
			result.Same = append(result.Same, rel)
		} else {
			result.Modified = append(result.Modified, rel)
		}
	}
	for rel := range relB {
		if _, ok := relA[rel]; !ok {
			result.OnlyInB = append(result.OnlyInB, rel)
		}
	}

	sort.Strings(result.Same)
	sort.Strings(result.Modified)
	sort.Strings(result.OnlyInA)
	sort.Strings(result.OnlyInB)
	return result, nil
}

// directChildrenOnly drops every relative path with more than one path
// component, restricting the comparison to root's immediate children.
func directChildrenOnly(rel map[string]string) map[string]string {
	out := make(map[string]string, len(rel))
	for r, abs := range rel {
		if !strings.Contains(r, "/") {
			out[r] = abs
		}
	}
	return out
}

func relativize(root string, paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return nil, err
		}
		out[filepath.ToSlash(rel)] = p
	}
	return out, nil
}

// String renders a Result as a short human-readable summary, printed as
// the first line of the compare command's output.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d same, %d modified, %d only in A, %d only in B",
		len(r.Same), len(r.Modified), len(r.OnlyInA), len(r.OnlyInB))
	return b.String()
}
