package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nsync-tools/nsync/internal/fsys"
	"github.com/nsync-tools/nsync/internal/grouper"
	"github.com/nsync-tools/nsync/internal/logging"
	"github.com/nsync-tools/nsync/internal/merger"
	"github.com/nsync-tools/nsync/internal/model"
	"github.com/nsync-tools/nsync/internal/orchestrator"
	"github.com/nsync-tools/nsync/internal/progress"
	"github.com/nsync-tools/nsync/internal/walker"
)

// mergeOptions holds CLI flags for the merge command.
type mergeOptions struct {
	pattern    string
	excludes   []string
	workers    int
	noProgress bool
	verbose    bool
	autoUseB   bool // non-interactive: resolve every block by preferring the second file
}

// newMergeCmd creates the merge subcommand: process_files (§6) over one
// pattern at one or more search roots.
func newMergeCmd() *cobra.Command {
	opts := &mergeOptions{
		pattern: "*",
		workers: runtime.NumCPU(),
	}

	cmd := &cobra.Command{
		Use:   "merge [roots...]",
		Short: "Discover, hash, group, and iteratively merge matching files",
		Long: `Walks the given roots for files matching --pattern, groups them by basename
and content, then interactively merges every basename with more than one
distinct version until a single reconciled file remains.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMerge(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", opts.pattern, "Basename glob pattern to match")
	cmd.Flags().StringSliceVarP(&opts.excludes, "exclude", "e", nil, "Glob patterns to exclude")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel workers")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show individual merge operations")
	cmd.Flags().BoolVar(&opts.autoUseB, "auto", false, "Resolve every conflicting block by keeping the later file's content, without prompting")

	return cmd
}

func runMerge(roots []string, opts *mergeOptions) error {
	if err := validateGlobPatterns([]string{opts.pattern}); err != nil {
		return fmt.Errorf("invalid --pattern: %w", err)
	}
	if err := validateGlobPatterns(opts.excludes); err != nil {
		return fmt.Errorf("invalid --exclude: %w", err)
	}

	log, err := logging.New(opts.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	showProgress := !opts.noProgress
	ctx := context.Background()

	paths, err := walker.Find(ctx, roots, opts.pattern, opts.excludes, opts.workers, nil)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no files matched")
		return nil
	}

	errCh := make(chan error, 100)
	go drainErrors(errCh, log)

	groups, groupErrs := grouper.Group(ctx, paths, opts.workers)
	for _, e := range groupErrs {
		errCh <- e
	}
	close(errCh)

	fs := fsys.NewOSFS()
	orc := orchestrator.New(fs)

	bar := progress.New(showProgress, -1)
	completion := orc.Run(ctx, groups,
		mergeCallback(fs, opts),
		statusCallback(bar, opts.verbose),
		continueCallback(opts.autoUseB),
	)
	bar.Finish(summaryString(completion))

	return outcomeToError(completion)
}

func mergeCallback(fs fsys.FS, opts *mergeOptions) orchestrator.MergeFunc {
	return func(ctx context.Context, pathA, pathB string) (model.MergeResult, bool) {
		linesA, err := fs.ReadLines(pathA)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: read %s: %v\n", pathA, err)
			return model.MergeResult{}, false
		}
		linesB, err := fs.ReadLines(pathB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: read %s: %v\n", pathB, err)
			return model.MergeResult{}, false
		}

		if opts.autoUseB {
			return merger.Merge(linesA, linesB, func(model.DiffBlock, model.BlockContext, int) model.Choice {
				return model.UseB
			}), true
		}

		result := merger.Merge(linesA, linesB, interactiveChoice(pathA, pathB))
		return result, true
	}
}

func interactiveChoice(pathA, pathB string) merger.ChooseFunc {
	return func(block model.DiffBlock, blkCtx model.BlockContext, blockNumber int) model.Choice {
		fmt.Fprintf(os.Stderr, "\n--- conflict block %d between %s and %s ---\n", blockNumber, pathA, pathB)
		for _, l := range blkCtx.BeforeA {
			fmt.Fprintf(os.Stderr, "  %s\n", l)
		}
		fmt.Fprintln(os.Stderr, "<<<<<<< A")
		for _, l := range blkCtx.ConflictA {
			fmt.Fprintln(os.Stderr, l)
		}
		fmt.Fprintln(os.Stderr, "=======")
		for _, l := range blkCtx.ConflictB {
			fmt.Fprintln(os.Stderr, l)
		}
		fmt.Fprintln(os.Stderr, ">>>>>>> B")
		for _, l := range blkCtx.AfterA {
			fmt.Fprintf(os.Stderr, "  %s\n", l)
		}

		answer, err := promptChoice("keep (a)/(b)/(o)=both/(s)=skip? ")
		if err != nil {
			return model.UseA
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "b":
			return model.UseB
		case "o", "both":
			return model.UseBoth
		case "s", "skip":
			return model.Skip
		default:
			return model.UseA
		}
	}
}

func statusCallback(bar *progress.Bar, verbose bool) orchestrator.StatusFunc {
	return func(status model.SessionStatus) {
		if verbose {
			fmt.Fprintf(os.Stderr, "iteration %d: merging %s <-> %s (similarity %.2f)\n",
				status.Iteration, status.PathA, status.PathB, status.Similarity)
		}
		bar.Describe(sessionStatusString{status})
	}
}

func continueCallback(auto bool) orchestrator.ContinueFunc {
	return func() bool {
		if auto {
			return true
		}
		return promptYesNo("continue to the next merge?")
	}
}

type sessionStatusString struct{ model.SessionStatus }

func (s sessionStatusString) String() string {
	return fmt.Sprintf("merge %d (%d remaining)", s.Iteration, s.RemainingGroups)
}

type completionSummary struct{ model.CompletionResult }

func summaryString(c model.CompletionResult) completionSummary { return completionSummary{c} }

func (c completionSummary) String() string {
	switch c.Outcome {
	case model.OutcomeSuccess:
		return fmt.Sprintf("reconciled in %d merge(s), %s written", len(c.Operations), humanize.IBytes(uint64(mergedBytes(c.Operations))))
	case model.OutcomeNoMergingNeeded:
		return "all files preserved — no merging needed"
	case model.OutcomeCancelled:
		return "cancelled"
	case model.OutcomeIncomplete:
		return fmt.Sprintf("incomplete after %d merge(s), %s written", len(c.Operations), humanize.IBytes(uint64(mergedBytes(c.Operations))))
	case model.OutcomeError:
		return fmt.Sprintf("error: %v", c.Err)
	default:
		return c.Message
	}
}

// mergedBytes sums the byte size of every merged-content write across a
// session's operations, for human-readable size reporting in completion
// summaries.
func mergedBytes(ops []model.MergeOperation) int64 {
	var total int64
	for _, op := range ops {
		total += op.MergedByteCount
	}
	return total
}

func outcomeToError(c model.CompletionResult) error {
	if c.Outcome == model.OutcomeError {
		return fmt.Errorf("merge failed: %w", c.Err)
	}
	return nil
}
