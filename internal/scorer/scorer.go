// Package scorer computes a 0.0-1.0 similarity score between two line
// sequences, used only for ranking candidate pairs in the orchestrator,
// never for correctness.
package scorer

import "strings"

// Score returns the similarity between a and b.
//
//   - both empty -> 1.0
//   - exactly one empty -> 0.0
//   - byte-identical joined content -> 1.0
//   - otherwise, Jaccard over the *set* of distinct lines: |A n B| / |A u B|
//
// Complexity is O(|A|+|B|) using hash sets; Score never reads files, it
// only accepts in-memory line sequences.
func Score(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if strings.Join(a, "\n") == strings.Join(b, "\n") {
		return 1.0
	}

	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for line := range setA {
		if _, ok := setB[line]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func toSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		set[l] = struct{}{}
	}
	return set
}
