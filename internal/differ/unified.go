package differ

import (
	"fmt"

	"github.com/nsync-tools/nsync/internal/model"
)

// hunk is one @@ -a,b +c,d @@ region of a unified diff: a contiguous range
// of A/B lines covering one or more DiffBlocks plus their surrounding
// context.
type hunk struct {
	startA, countA int
	startB, countB int
	blocks         []blockRange
}

// blockRange restates a DiffBlock's extents for rendering purposes.
type blockRange struct {
	deleteStartA, deleteCountA int
	insertStartB, insertCountB int
}

func (h hunk) header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", h.startA+1, h.countA, h.startB+1, h.countB)
}

// lines renders the hunk body: unchanged lines with a leading space,
// deleted lines from a with a leading '-', inserted lines from b with a
// leading '+'.
func (h hunk) lines(a, b []string) []string {
	var out []string
	posA, posB := h.startA, h.startB

	for _, blk := range h.blocks {
		for posA < blk.deleteStartA && posB < blk.insertStartB {
			out = append(out, " "+a[posA])
			posA++
			posB++
		}
		for i := 0; i < blk.deleteCountA; i++ {
			out = append(out, "-"+a[posA+i])
		}
		for i := 0; i < blk.insertCountB; i++ {
			out = append(out, "+"+b[posB+i])
		}
		posA += blk.deleteCountA
		posB += blk.insertCountB
	}

	endA := h.startA + h.countA
	for posA < endA {
		out = append(out, " "+a[posA])
		posA++
	}
	return out
}

// hunksFromBlocks groups DiffBlocks into hunks, merging blocks whose
// context windows overlap, per the standard unified-diff convention.
func hunksFromBlocks(blocks []model.DiffBlock, lenA, lenB, context int) []hunk {
	var hunks []hunk

	for _, db := range blocks {
		start := db.DeleteStartA - context
		if start < 0 {
			start = 0
		}
		end := db.DeleteStartA + db.DeleteCountA + context
		if end > lenA {
			end = lenA
		}
		bStart := db.InsertStartB - context
		if bStart < 0 {
			bStart = 0
		}
		bEnd := db.InsertStartB + db.InsertCountB + context
		if bEnd > lenB {
			bEnd = lenB
		}

		br := blockRange{
			deleteStartA: db.DeleteStartA, deleteCountA: db.DeleteCountA,
			insertStartB: db.InsertStartB, insertCountB: db.InsertCountB,
		}

		if n := len(hunks); n > 0 && start <= hunks[n-1].startA+hunks[n-1].countA {
			h := &hunks[n-1]
			if end > h.startA+h.countA {
				h.countA = end - h.startA
			}
			if bEnd > h.startB+h.countB {
				h.countB = bEnd - h.startB
			}
			h.blocks = append(h.blocks, br)
			continue
		}

		hunks = append(hunks, hunk{
			startA: start, countA: end - start,
			startB: bStart, countB: bEnd - bStart,
			blocks: []blockRange{br},
		})
	}

	return hunks
}
