// Package batch runs the four-phase discovery/interaction pipeline over a
// set of glob patterns: Gather, Hash, Group, Resolve. Phases are strictly
// ordered; within Gather and Hash, independent units of work run in
// parallel under a bounded worker pool.
//
// Grounded on the teacher's cmd/dupedog/dedupe.go runDedupe: scan → screen
// → verify → dedupe, generalized here to gather → hash → group → resolve
// and parameterized over multiple patterns (the teacher handles one
// pattern per invocation; Gather fans that out per-pattern using the same
// goroutine-per-unit-of-work shape scanner.go uses per-root).
package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nsync-tools/nsync/internal/fsys"
	"github.com/nsync-tools/nsync/internal/grouper"
	"github.com/nsync-tools/nsync/internal/logging"
	"github.com/nsync-tools/nsync/internal/model"
	"github.com/nsync-tools/nsync/internal/orchestrator"
	"github.com/nsync-tools/nsync/internal/walker"
)

// Pattern describes one glob pattern to gather under a batch run.
type Pattern struct {
	Glob       string
	Exclusions []string
}

// Options configures a batch run.
type Options struct {
	Roots      []string
	Patterns   []Pattern
	Workers    int
	SkipEmpty  bool // skip_empty_patterns: omit patterns with zero gathered files from the result
	OnProgress func(path string)
	Logger     logging.Logger
	Merge      orchestrator.MergeFunc
	Status     orchestrator.StatusFunc
	Continue   orchestrator.ContinueFunc
	BeforeEach func(pattern string) bool // prompt_before_each_pattern; false skips the pattern
}

// ItemResult is the outcome of resolving one ResolutionItem.
type ItemResult struct {
	Item       model.ResolutionItem
	Completion model.CompletionResult
}

// Processor runs the four-phase batch pipeline against a filesystem.
type Processor struct {
	fs fsys.FS
}

// New builds a Processor over the given filesystem.
func New(fs fsys.FS) *Processor {
	return &Processor{fs: fs}
}

// Run executes Gather, Hash, Group, and Resolve in order and returns one
// ItemResult per ResolutionItem, in the order Group produced them.
func (p *Processor) Run(ctx context.Context, opts Options) ([]ItemResult, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop{}
	}

	allPaths, err := p.gather(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}
	if len(allPaths) == 0 {
		return nil, nil
	}

	// Phase 2 (Hash) and Phase 3 (Group) are both driven through the
	// grouper, which hashes under a bounded pool (§4.8 Phase 2) and then
	// buckets by basename then by hash (§4.8 Phase 3). Per-file hash
	// errors are logged and the file dropped; the phase does not abort.
	groups, groupErrs := grouper.Group(ctx, allPaths, opts.Workers)
	for _, e := range groupErrs {
		log.Warnf("hash: %v", e)
	}

	items := itemsFromGroups(groups)

	return p.resolve(ctx, items, opts)
}

// gather runs the File Walker over every pattern in parallel (patterns are
// independent of each other), deduplicating discovered paths across
// patterns.
func (p *Processor) gather(ctx context.Context, opts Options) ([]string, error) {
	type result struct {
		paths []string
		err   error
	}

	results := make([]result, len(opts.Patterns))
	var wg sync.WaitGroup

	for i, pat := range opts.Patterns {
		if opts.BeforeEach != nil && !opts.BeforeEach(pat.Glob) {
			continue
		}
		wg.Add(1)
		go func(i int, pat Pattern) {
			defer wg.Done()
			found, err := walker.Find(ctx, opts.Roots, pat.Glob, pat.Exclusions, opts.Workers, opts.OnProgress)
			results[i] = result{paths: found, err: err}
		}(i, pat)
	}
	wg.Wait()

	seen := make(map[string]struct{})
	var out []string
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if opts.SkipEmpty && len(r.paths) == 0 {
			continue
		}
		for _, path := range r.paths {
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				out = append(out, path)
			}
		}
	}
	return out, nil
}

// RunLegacy is the alternative per-pattern interleaved path (§4.8): for
// each pattern in turn, gather, hash, group, and resolve before moving to
// the next pattern, rather than completing all of Gather before any
// Hash begins. Patterns run sequentially rather than in parallel. For
// patterns that do not overlap, the semantic output matches Run. Paths are
// not deduplicated across patterns: a file matched by more than one pattern
// is grouped and resolved once per pattern, and same-basename files found
// by different patterns are grouped separately rather than together.
func (p *Processor) RunLegacy(ctx context.Context, opts Options) ([]ItemResult, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop{}
	}

	var all []ItemResult
	for _, pat := range opts.Patterns {
		if opts.BeforeEach != nil && !opts.BeforeEach(pat.Glob) {
			continue
		}

		paths, err := walker.Find(ctx, opts.Roots, pat.Glob, pat.Exclusions, opts.Workers, opts.OnProgress)
		if err != nil {
			return nil, fmt.Errorf("gather %s: %w", pat.Glob, err)
		}
		if opts.SkipEmpty && len(paths) == 0 {
			continue
		}
		if len(paths) == 0 {
			continue
		}

		groups, groupErrs := grouper.Group(ctx, paths, opts.Workers)
		for _, e := range groupErrs {
			log.Warnf("hash: %v", e)
		}

		results, err := p.resolve(ctx, itemsFromGroups(groups), opts)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// itemsFromGroups buckets the grouper's flat FileGroup list by basename
// (every path within a single FileGroup already shares one basename, by
// construction) and classifies each bucket into a ResolutionItem.
func itemsFromGroups(groups []model.FileGroup) []model.ResolutionItem {
	byBasename := make(map[string][]model.FileGroup)
	for _, g := range groups {
		base := g.Basename()
		byBasename[base] = append(byBasename[base], g)
	}

	var basenames []string
	for b := range byBasename {
		basenames = append(basenames, b)
	}
	sort.Strings(basenames)

	items := make([]model.ResolutionItem, 0, len(basenames))
	for _, base := range basenames {
		bucket := byBasename[base]
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Hash < bucket[j].Hash })
		items = append(items, model.ResolutionItem{
			Basename:       base,
			Groups:         bucket,
			ResolutionType: classify(bucket),
		})
	}
	return items
}

func classify(groups []model.FileGroup) model.ResolutionType {
	switch {
	case len(groups) == 0:
		return model.Empty
	case len(groups) == 1 && totalPaths(groups) == 1:
		return model.SingleFile
	case len(groups) == 1:
		return model.Identical
	default:
		return model.Merge
	}
}

func totalPaths(groups []model.FileGroup) int {
	n := 0
	for _, g := range groups {
		n += g.Len()
	}
	return n
}

// resolve processes ResolutionItems in order. Empty/SingleFile/Identical
// items are recorded as successful no-ops; Merge items invoke the
// Orchestrator.
func (p *Processor) resolve(ctx context.Context, items []model.ResolutionItem, opts Options) ([]ItemResult, error) {
	orc := orchestrator.New(p.fs)

	out := make([]ItemResult, 0, len(items))
	for _, item := range items {
		if item.ResolutionType != model.Merge {
			out = append(out, ItemResult{
				Item:       item,
				Completion: model.CompletionResult{Outcome: model.OutcomeSuccess},
			})
			continue
		}

		completion := orc.Run(ctx, item.Groups, opts.Merge, opts.Status, opts.Continue)
		out = append(out, ItemResult{Item: item, Completion: completion})
	}
	return out, nil
}
