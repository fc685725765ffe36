// Package model holds the shared data types that flow through the nsync
// pipeline: discovery -> hashing -> grouping -> iterative merge.
package model

import (
	"cmp"
	"slices"
)

// Sorted is an ordered collection that maintains sort order by a key function.
// Carried over from the teacher's types.Sorted[T,K] generic.
type Sorted[T any, K cmp.Ordered] struct {
	items   []T
	keyFunc func(T) K
}

// NewSorted creates a sorted collection from items using keyFunc for ordering.
func NewSorted[T any, K cmp.Ordered](items []T, keyFunc func(T) K) Sorted[T, K] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	slices.SortFunc(sorted, func(a, b T) int {
		return cmp.Compare(keyFunc(a), keyFunc(b))
	})
	return Sorted[T, K]{items: sorted, keyFunc: keyFunc}
}

// Items returns the sorted items.
func (s Sorted[T, K]) Items() []T { return s.items }

// First returns the first item (smallest key), or zero value if empty.
func (s Sorted[T, K]) First() T {
	if len(s.items) == 0 {
		var zero T
		return zero
	}
	return s.items[0]
}

// Len returns the number of items.
func (s Sorted[T, K]) Len() int { return len(s.items) }

// FileGroup represents one "version" of a basename: a stable content
// fingerprint and the non-empty set of paths that currently hold it.
//
// Invariant: every path in Paths refers to a file whose current on-disk
// content hashes to Hash; all paths share the same basename.
type FileGroup struct {
	Hash  string
	paths Sorted[string, string]
}

// NewFileGroup builds a FileGroup, sorting paths for deterministic iteration.
func NewFileGroup(hash string, paths []string) FileGroup {
	return FileGroup{Hash: hash, paths: NewSorted(paths, func(p string) string { return p })}
}

// Paths returns the group's paths, sorted.
func (g FileGroup) Paths() []string { return g.paths.Items() }

// First returns the lexicographically-first path, used as a representative
// file when the group must be compared against another.
func (g FileGroup) First() string { return g.paths.First() }

// Len returns the number of paths in the group.
func (g FileGroup) Len() int { return g.paths.Len() }

// Basename returns the shared basename of every path in the group, or ""
// if the group is empty.
func (g FileGroup) Basename() string {
	if g.paths.Len() == 0 {
		return ""
	}
	return basename(g.First())
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// DiffBlock is a single change region between two line sequences A and B.
//
// Invariant: DeleteCountA + InsertCountB >= 1. Blocks for a given (A,B) pair
// are ordered by DeleteStartA and never overlap.
type DiffBlock struct {
	DeleteStartA int
	DeleteCountA int
	InsertStartB int
	InsertCountB int
}

// LineKind classifies a LineDifference.
type LineKind int

const (
	Added LineKind = iota
	Deleted
	Modified
)

// LineDifference is a user-facing per-line change, produced by flattening
// DiffBlocks and pairing adjacent delete+insert at the same position.
type LineDifference struct {
	LineNoA   int // -1 if absent (Added)
	LineNoB   int // -1 if absent (Deleted)
	ContentA  string
	ContentB  string
	Kind      LineKind
}

// BlockContext carries a DiffBlock's actual conflicting lines from both
// sides, plus up to three lines of surrounding context on each side, for
// the benefit of a user-choice callback. It is produced on demand and
// discarded after the callback returns.
type BlockContext struct {
	ConflictA []string // lines a[DeleteStartA : DeleteStartA+DeleteCountA]
	ConflictB []string // lines b[InsertStartB : InsertStartB+InsertCountB]
	BeforeA   []string
	AfterA    []string
	BeforeB   []string
	AfterB    []string
}

// Choice is the resolution a user (or a non-interactive policy) picks for
// one DiffBlock.
type Choice int

const (
	UseA Choice = iota
	UseB
	UseBoth
	Skip
)

// MergeResult is the output of the Block Merger.
type MergeResult struct {
	MergedLines []string
	Conflicts   []string
}

// ResolutionType classifies a basename bucket during batch processing.
type ResolutionType int

const (
	Empty ResolutionType = iota
	SingleFile
	Identical
	Merge
)

// ResolutionItem pairs a basename with its FileGroups and a classification
// that determines whether user interaction (the Merge case) is required.
type ResolutionItem struct {
	Basename       string
	Groups         []FileGroup
	ResolutionType ResolutionType
}

// Outcome enumerates the possible user-visible results of a merge session.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCancelled
	OutcomeIncomplete
	OutcomeError
	OutcomeAccessDenied
	OutcomeNoMergingNeeded
)

// CompletionResult is returned by the Iterative Merge Orchestrator when a
// session ends, by whichever path.
type CompletionResult struct {
	Outcome       Outcome
	FinalGroup    *FileGroup // non-nil only on OutcomeSuccess with exactly one group left
	Message       string
	Err           error
	Operations    []MergeOperation
}

// MergeOperation records one completed iteration of the orchestrator loop,
// for the session's completion summary.
type MergeOperation struct {
	Number          int
	PathA, PathB    string
	Similarity      float64
	FilesAffected   int
	ConflictCount   int
	MergedLineCount int
	MergedByteCount int64
}

// SessionStatus is reported to the orchestrator's status callback once per
// iteration, before the pairwise merge is invoked.
type SessionStatus struct {
	Iteration       int
	RemainingGroups int
	CompletedMerges int
	PathA, PathB    string
	Similarity      float64
}
