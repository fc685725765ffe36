// Package orchestrator repeatedly picks the two most-similar FileGroups,
// merges them, writes the merged content to every path in both groups, and
// coalesces the groups until one remains.
//
// Grounded on the teacher's internal/deduper package: a single-use Run()
// loop driven by a stats struct and a progress bar, processing one unit of
// work (there: a DuplicateGroup; here: a pairwise merge) at a time.
package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/nsync-tools/nsync/internal/differ"
	"github.com/nsync-tools/nsync/internal/fsys"
	"github.com/nsync-tools/nsync/internal/hasher"
	"github.com/nsync-tools/nsync/internal/model"
	"github.com/nsync-tools/nsync/internal/scorer"
)

// MergeFunc performs one pairwise merge between the representative files
// at pathA and pathB, invoking per-block user choices. Returning ok=false
// signals user cancellation.
type MergeFunc func(ctx context.Context, pathA, pathB string) (result model.MergeResult, ok bool)

// StatusFunc receives iteration/progress information once per iteration,
// before MergeFunc is invoked.
type StatusFunc func(model.SessionStatus)

// ContinueFunc decides whether to proceed to the next iteration after a
// successful merge. Returning false ends the session as Incomplete.
type ContinueFunc func() bool

// Orchestrator runs the iterative merge loop. It exclusively owns its
// working list of FileGroups for the duration of a session: no lock is
// held across a MergeFunc callback, but the working-list mutation and
// fan-out writes assume single-threaded ownership (§5).
type Orchestrator struct {
	fs fsys.FS
}

// New builds an Orchestrator over the given filesystem.
func New(fs fsys.FS) *Orchestrator {
	return &Orchestrator{fs: fs}
}

// Run executes the iterative merge algorithm (spec.md §4.7) to completion,
// cancellation, incompleteness, or error.
func (o *Orchestrator) Run(ctx context.Context, initial []model.FileGroup, merge MergeFunc, status StatusFunc, cont ContinueFunc) model.CompletionResult {
	groups := append([]model.FileGroup(nil), initial...)
	var ops []model.MergeOperation

	for {
		if len(groups) <= 1 {
			return finish(groups, model.OutcomeSuccess, "", ops)
		}

		i, j, sim, found, err := o.pickMostSimilarPair(groups)
		if err != nil {
			return model.CompletionResult{Outcome: model.OutcomeError, Err: err, Message: err.Error(), Operations: ops}
		}
		if !found {
			return model.CompletionResult{
				Outcome: model.OutcomeNoMergingNeeded,
				Message: "all files preserved — no merging needed",
			}
		}

		iterNum := len(ops) + 1
		if status != nil {
			status(model.SessionStatus{
				Iteration:       iterNum,
				RemainingGroups: len(groups),
				CompletedMerges: len(ops),
				PathA:           groups[i].First(),
				PathB:           groups[j].First(),
				Similarity:      sim,
			})
		}

		result, ok := merge(ctx, groups[i].First(), groups[j].First())
		if !ok {
			return model.CompletionResult{Outcome: model.OutcomeCancelled, Message: "cancelled", Operations: ops}
		}

		affected := groups[i].Len() + groups[j].Len()
		if err := o.writeToAll(groups[i], groups[j], result.MergedLines); err != nil {
			return model.CompletionResult{
				Outcome: outcomeForWriteError(err), Err: err,
				Message:    fmt.Sprintf("fan-out write failed: %v", err),
				Operations: ops,
			}
		}

		merged := joinLines(result.MergedLines)
		mergedHash := hasher.HashString(merged)
		newPaths := append(append([]string(nil), groups[i].Paths()...), groups[j].Paths()...)
		newGroup := model.NewFileGroup(mergedHash, newPaths)

		ops = append(ops, model.MergeOperation{
			Number: iterNum, PathA: groups[i].First(), PathB: groups[j].First(),
			Similarity: sim, FilesAffected: affected,
			ConflictCount: len(result.Conflicts), MergedLineCount: len(result.MergedLines),
			MergedByteCount: int64(len(merged)),
		})

		groups = replacePair(groups, i, j, newGroup)

		if len(groups) > 1 {
			if cont != nil && !cont() {
				return model.CompletionResult{Outcome: model.OutcomeIncomplete, Message: "incomplete", Operations: ops}
			}
		}
	}
}

// pickMostSimilarPair scans all unordered pairs of groups, scoring only
// pairs whose representative paths share a basename (cross-basename pairs
// are never scored), and returns the indices of the highest-scoring pair.
// Representative content is read once per group per call via the
// orchestrator's FS, since FileGroup itself carries only paths and a hash.
//
// Scoring ignores whitespace (spec default: honor whitespace when merging,
// ignore it when scoring similarity), so the raw lines read from disk are
// normalized with differ.StripWhitespace before being handed to the
// scorer; the unnormalized lines are what merge still operates on.
func (o *Orchestrator) pickMostSimilarPair(groups []model.FileGroup) (i, j int, sim float64, found bool, err error) {
	lines := make([][]string, len(groups))
	for k, g := range groups {
		l, rerr := o.fs.ReadLines(g.First())
		if rerr != nil {
			return 0, 0, 0, false, rerr
		}
		lines[k] = normalizedForScoring(l)
	}

	best := -1.0
	for a := 0; a < len(groups); a++ {
		for b := a + 1; b < len(groups); b++ {
			if groups[a].Basename() != groups[b].Basename() {
				continue
			}
			s := scorer.Score(lines[a], lines[b])
			if s > best {
				best, i, j, found = s, a, b, true
			}
		}
	}
	return i, j, best, found, nil
}

// outcomeForWriteError classifies a fan-out write failure per §7's error
// taxonomy: access-denied failures get their own user-visible outcome,
// everything else falls back to the generic error outcome.
func outcomeForWriteError(err error) model.Outcome {
	if os.IsPermission(err) {
		return model.OutcomeAccessDenied
	}
	return model.OutcomeError
}

func normalizedForScoring(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = differ.StripWhitespace(l)
	}
	return out
}

func (o *Orchestrator) writeToAll(a, b model.FileGroup, lines []string) error {
	for _, p := range a.Paths() {
		if err := o.fs.WriteText(p, lines); err != nil {
			return err
		}
	}
	for _, p := range b.Paths() {
		if err := o.fs.WriteText(p, lines); err != nil {
			return err
		}
	}
	return nil
}

func replacePair(groups []model.FileGroup, i, j int, replacement model.FileGroup) []model.FileGroup {
	out := make([]model.FileGroup, 0, len(groups)-1)
	for k, g := range groups {
		if k == i || k == j {
			continue
		}
		out = append(out, g)
	}
	out = append(out, replacement)
	return out
}

func finish(groups []model.FileGroup, outcome model.Outcome, msg string, ops []model.MergeOperation) model.CompletionResult {
	var final *model.FileGroup
	if len(groups) == 1 {
		g := groups[0]
		final = &g
	}
	return model.CompletionResult{Outcome: outcome, FinalGroup: final, Message: msg, Operations: ops}
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
