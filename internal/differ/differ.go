// Package differ produces a sequence of diff blocks between two line
// sequences, using a standard LCS-based line diff, plus the derived
// per-line LineDifference view and a unified-diff rendering. Diffing is
// line-level only; no character-level refinement within a line is
// provided.
//
// Grounded on hercules' FileDiff PipelineItem (other_examples), which
// encodes whole lines as single runes via diffmatchpatch.DiffLinesToRunes,
// runs DiffMainRunes (an LCS-based diff) over the rune sequence, then
// expands back to real line text with DiffCharsToLines.
package differ

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nsync-tools/nsync/internal/model"
)

// Diff produces the DiffBlocks between a and b. ignoreWhitespace controls
// whether leading/trailing/interior whitespace differences are folded
// away before comparison; per spec, merging honors whitespace (false) while
// similarity scoring ignores it (true) -- callers choose which they need.
func Diff(a, b []string, ignoreWhitespace bool) []model.DiffBlock {
	dmp := diffmatchpatch.New()

	aText := joinForDiff(a, ignoreWhitespace)
	bText := joinForDiff(b, ignoreWhitespace)

	aRunes, bRunes, lineArray := dmp.DiffLinesToRunes(aText, bText)
	diffs := dmp.DiffMainRunes(aRunes, bRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var blocks []model.DiffBlock
	posA, posB := 0, 0
	var pending *model.DiffBlock

	flush := func() {
		if pending != nil {
			blocks = append(blocks, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			posA += n
			posB += n
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &model.DiffBlock{DeleteStartA: posA, InsertStartB: posB}
			}
			pending.DeleteCountA += n
			posA += n
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &model.DiffBlock{DeleteStartA: posA, InsertStartB: posB}
			}
			pending.InsertCountB += n
			posB += n
		}
	}
	flush()

	return blocks
}

// joinForDiff joins lines with "\n" (diffmatchpatch's line-encoding scheme
// requires a trailing newline on every line including the last) and,
// when ignoreWhitespace is set, strips spaces so whitespace-only changes
// collapse to equal lines.
func joinForDiff(lines []string, ignoreWhitespace bool) string {
	var b strings.Builder
	for _, l := range lines {
		if ignoreWhitespace {
			l = StripWhitespace(l)
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// StripWhitespace collapses all whitespace out of a single line, so that
// two lines differing only in spacing compare equal. Exported for reuse by
// anything else that needs the same whitespace-ignoring notion of line
// equality as Diff's ignoreWhitespace toggle (e.g. the Similarity Scorer,
// whose documented default is to ignore whitespace).
func StripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n")
}

// Identical reports whether a and b are the same sequence of lines once
// whitespace differences are ignored.
func Identical(a, b []string) bool {
	return len(Diff(a, b, true)) == 0
}

// Unified renders a standard git-style unified diff with context lines of
// surrounding context on each side of a change.
func Unified(a, b []string, context int) string {
	blocks := Diff(a, b, false)
	if len(blocks) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("--- a\n+++ b\n")

	for _, hunk := range hunksFromBlocks(blocks, len(a), len(b), context) {
		out.WriteString(hunk.header())
		for _, line := range hunk.lines(a, b) {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
	return out.String()
}
