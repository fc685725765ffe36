package differ

import "github.com/nsync-tools/nsync/internal/model"

// LineDifferences flattens DiffBlocks into per-line Added/Deleted records,
// then pairs any Deleted record at relative position i within a block with
// the first unused Added record at the same relative position i, emitting
// a single Modified record carrying both contents.
//
// Open question (spec.md Design Notes, §9): the pairing is by exact
// relative position, not by content similarity. Interleaved changes may
// therefore mis-pair; this implementation deliberately does not attempt a
// similarity-based re-pairing, matching the spec's default policy.
func LineDifferences(a, b []string) []model.LineDifference {
	blocks := Diff(a, b, false)

	var out []model.LineDifference
	for _, blk := range blocks {
		n := blk.DeleteCountA
		if blk.InsertCountB > n {
			n = blk.InsertCountB
		}
		for i := 0; i < n; i++ {
			hasDel := i < blk.DeleteCountA
			hasIns := i < blk.InsertCountB
			switch {
			case hasDel && hasIns:
				out = append(out, model.LineDifference{
					LineNoA:  blk.DeleteStartA + i,
					LineNoB:  blk.InsertStartB + i,
					ContentA: a[blk.DeleteStartA+i],
					ContentB: b[blk.InsertStartB+i],
					Kind:     model.Modified,
				})
			case hasDel:
				out = append(out, model.LineDifference{
					LineNoA:  blk.DeleteStartA + i,
					LineNoB:  -1,
					ContentA: a[blk.DeleteStartA+i],
					Kind:     model.Deleted,
				})
			case hasIns:
				out = append(out, model.LineDifference{
					LineNoA:  -1,
					LineNoB:  blk.InsertStartB + i,
					ContentB: b[blk.InsertStartB+i],
					Kind:     model.Added,
				})
			}
		}
	}
	return out
}
