// Package merger walks the diff blocks of two line sequences and, for each,
// requests a resolution choice from a callback, producing a merged
// sequence. It also provides a non-interactive fallback merger that
// synthesizes Git-style conflict markers when no user-choice callback is
// available.
package merger

import (
	"fmt"

	"github.com/nsync-tools/nsync/internal/differ"
	"github.com/nsync-tools/nsync/internal/model"
)

// ChooseFunc is invoked once per DiffBlock to resolve it.
type ChooseFunc func(block model.DiffBlock, ctx model.BlockContext, blockNumber int) model.Choice

// Merge walks the DiffBlocks between a and b, in order, asking choose to
// resolve each one. Between blocks, and after the last one, the unchanged
// A-lines are emitted verbatim (by construction identical to B at those
// positions). If there are no blocks, a is returned unchanged with no
// conflicts.
func Merge(a, b []string, choose ChooseFunc) model.MergeResult {
	blocks := differ.Diff(a, b, false)

	var merged []string
	posA := 0

	for i, blk := range blocks {
		// Emit the unchanged gap before this block.
		merged = append(merged, a[posA:blk.DeleteStartA]...)

		blkCtx := contextFor(a, b, blk)
		choice := choose(blk, blkCtx, i+1)

		aLines := a[blk.DeleteStartA : blk.DeleteStartA+blk.DeleteCountA]
		bLines := b[blk.InsertStartB : blk.InsertStartB+blk.InsertCountB]

		switch choice {
		case model.UseA:
			merged = append(merged, aLines...)
		case model.UseB:
			merged = append(merged, bLines...)
		case model.UseBoth:
			merged = append(merged, aLines...)
			merged = append(merged, bLines...)
		case model.Skip:
			// nothing emitted
		}

		posA = blk.DeleteStartA + blk.DeleteCountA
	}

	merged = append(merged, a[posA:]...)

	return model.MergeResult{MergedLines: merged}
}

// contextFor extracts blk's actual conflicting lines from a and b, plus up
// to three lines of surrounding context on each side.
func contextFor(a, b []string, blk model.DiffBlock) model.BlockContext {
	return model.BlockContext{
		ConflictA: a[blk.DeleteStartA : blk.DeleteStartA+blk.DeleteCountA],
		ConflictB: b[blk.InsertStartB : blk.InsertStartB+blk.InsertCountB],
		BeforeA:   tailUpTo(a[:blk.DeleteStartA], 3),
		AfterA:    headUpTo(a[blk.DeleteStartA+blk.DeleteCountA:], 3),
		BeforeB:   tailUpTo(b[:blk.InsertStartB], 3),
		AfterB:    headUpTo(b[blk.InsertStartB+blk.InsertCountB:], 3),
	}
}

func tailUpTo(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func headUpTo(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[:n]
}

// MergeNonInteractive synthesizes a conflicted merge when no user-choice
// callback is available: every DiffBlock is emitted as a Git-style
// three-way conflict marker block. Neither the Iterative Merge
// Orchestrator nor the CLI calls this path.
func MergeNonInteractive(a, b []string) model.MergeResult {
	blocks := differ.Diff(a, b, false)

	var merged []string
	var conflicts []string
	posA := 0

	for _, blk := range blocks {
		merged = append(merged, a[posA:blk.DeleteStartA]...)

		aLines := a[blk.DeleteStartA : blk.DeleteStartA+blk.DeleteCountA]
		bLines := b[blk.InsertStartB : blk.InsertStartB+blk.InsertCountB]

		marker := conflictMarker(aLines, bLines)
		merged = append(merged, marker...)
		conflicts = append(conflicts, fmt.Sprintf("block at A:%d/B:%d", blk.DeleteStartA, blk.InsertStartB))

		posA = blk.DeleteStartA + blk.DeleteCountA
	}
	merged = append(merged, a[posA:]...)

	return model.MergeResult{MergedLines: merged, Conflicts: conflicts}
}

// conflictMarker builds one Git-style conflict marker block, with
// "(deleted)"/"(not present)" variants for one-sided blocks.
func conflictMarker(aLines, bLines []string) []string {
	var out []string
	switch {
	case len(bLines) == 0:
		out = append(out, "<<<<<<< Version 1 (deleted)")
		out = append(out, aLines...)
		out = append(out, "=======")
		out = append(out, ">>>>>>> Version 2 (not present)")
	case len(aLines) == 0:
		out = append(out, "<<<<<<< Version 1 (not present)")
		out = append(out, "=======")
		out = append(out, bLines...)
		out = append(out, ">>>>>>> Version 2 (added)")
	default:
		out = append(out, "<<<<<<< Version 1")
		out = append(out, aLines...)
		out = append(out, "=======")
		out = append(out, bLines...)
		out = append(out, ">>>>>>> Version 2")
	}
	return out
}
