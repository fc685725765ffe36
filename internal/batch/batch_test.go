package batch

import (
	"context"
	"testing"

	"github.com/nsync-tools/nsync/internal/fsys"
	"github.com/nsync-tools/nsync/internal/merger"
	"github.com/nsync-tools/nsync/internal/model"
	"github.com/nsync-tools/nsync/internal/testtree"
)

func TestClassifyEmptySingleIdenticalMerge(t *testing.T) {
	cases := []struct {
		name   string
		groups []model.FileGroup
		want   model.ResolutionType
	}{
		{"empty", nil, model.Empty},
		{"single", []model.FileGroup{model.NewFileGroup("h1", []string{"/a/f"})}, model.SingleFile},
		{"identical", []model.FileGroup{model.NewFileGroup("h1", []string{"/a/f", "/b/f"})}, model.Identical},
		{"merge", []model.FileGroup{
			model.NewFileGroup("h1", []string{"/a/f"}),
			model.NewFileGroup("h2", []string{"/b/f"}),
		}, model.Merge},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classify(c.groups); got != c.want {
				t.Fatalf("classify() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestItemsFromGroupsBucketsByBasenameAndSortsDeterministically(t *testing.T) {
	groups := []model.FileGroup{
		model.NewFileGroup("hz", []string{"/a/config.yaml"}),
		model.NewFileGroup("ha", []string{"/b/config.yaml"}),
		model.NewFileGroup("h1", []string{"/a/readme.md"}),
	}

	items := itemsFromGroups(groups)
	if len(items) != 2 {
		t.Fatalf("expected 2 resolution items, got %d", len(items))
	}
	if items[0].Basename != "config.yaml" || items[1].Basename != "readme.md" {
		t.Fatalf("expected basenames sorted lexically, got %q, %q", items[0].Basename, items[1].Basename)
	}
	if items[0].ResolutionType != model.Merge {
		t.Fatalf("expected config.yaml bucket to classify as Merge, got %v", items[0].ResolutionType)
	}
	if items[0].Groups[0].Hash > items[0].Groups[1].Hash {
		t.Fatalf("expected groups within a bucket sorted by hash for determinism")
	}
}

func TestRunWithNoGatheredFilesReturnsEmptyResult(t *testing.T) {
	p := New(nil)
	results, err := p.Run(context.Background(), Options{
		Roots:    []string{"/does/not/exist"},
		Patterns: []Pattern{{Glob: "*.nomatch"}},
		Workers:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for an empty gather, got %d", len(results))
	}
}

func TestRunReconcilesDivergedVersionsAcrossRoots(t *testing.T) {
	root := t.TempDir()
	_, err := testtree.Build(root, testtree.Tree{Versions: []testtree.Version{
		{Dir: "left", Name: "app.yaml", Content: "a: 1\nb: 2\n"},
		{Dir: "right", Name: "app.yaml", Content: "a: 1\nb: 9\n"},
		{Dir: "left", Name: "unique.txt", Content: "only on the left\n"},
	}})
	if err != nil {
		t.Fatalf("testtree.Build: %v", err)
	}

	fs := fsys.NewOSFS()
	p := New(fs)

	useBEverywhere := func(model.DiffBlock, model.BlockContext, int) model.Choice { return model.UseB }
	results, err := p.Run(context.Background(), Options{
		Roots:    []string{root},
		Patterns: []Pattern{{Glob: "*"}},
		Workers:  2,
		Merge: func(_ context.Context, pathA, pathB string) (model.MergeResult, bool) {
			linesA, err := fs.ReadLines(pathA)
			if err != nil {
				t.Fatalf("read %s: %v", pathA, err)
			}
			linesB, err := fs.ReadLines(pathB)
			if err != nil {
				t.Fatalf("read %s: %v", pathB, err)
			}
			return merger.Merge(linesA, linesB, useBEverywhere), true
		},
		Continue: func() bool { return true },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var appItem *ItemResult
	for i := range results {
		if results[i].Item.Basename == "app.yaml" {
			appItem = &results[i]
		}
	}
	if appItem == nil {
		t.Fatalf("expected a resolution item for app.yaml, got %v", results)
	}
	if appItem.Completion.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected app.yaml to reconcile successfully, got outcome %v", appItem.Completion.Outcome)
	}

	want := "a: 1\nb: 9\n"
	got, err := fs.ReadLines(root + "/left/app.yaml")
	if err != nil {
		t.Fatalf("read reconciled left copy: %v", err)
	}
	if joinedGot := testtreeJoin(got); joinedGot != want {
		t.Fatalf("left/app.yaml = %q, want %q", joinedGot, want)
	}
}

func testtreeJoin(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
