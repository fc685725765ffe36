package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nsync-tools/nsync/internal/batch"
	"github.com/nsync-tools/nsync/internal/config"
	"github.com/nsync-tools/nsync/internal/fsys"
	"github.com/nsync-tools/nsync/internal/logging"
	"github.com/nsync-tools/nsync/internal/progress"
)

type batchOptions struct {
	configPath string
	workers    int
	noProgress bool
	verbose    bool
	legacy     bool
	autoUseB   bool
}

// newBatchCmd creates the batch subcommand: process_batch (§6), the
// multi-pattern driver over a saved BatchConfiguration document.
func newBatchCmd() *cobra.Command {
	opts := &batchOptions{workers: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "batch <config.json>",
		Short: "Run a saved multi-pattern batch reconciliation",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.configPath = args[0]
			return runBatch(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel workers")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show individual merge operations")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Use the interleaved per-pattern path instead of the four-phase pipeline")
	cmd.Flags().BoolVar(&opts.autoUseB, "auto", false, "Resolve every conflicting block without prompting")

	return cmd
}

func runBatch(opts *batchOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load batch configuration: %w", err)
	}
	if err := validateGlobPatterns(cfg.FilePatterns); err != nil {
		return fmt.Errorf("invalid filePatterns: %w", err)
	}
	if err := validateGlobPatterns(cfg.PathExclusionPatterns); err != nil {
		return fmt.Errorf("invalid pathExclusionPatterns: %w", err)
	}

	log, err := logging.New(opts.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var patterns []batch.Pattern
	for _, p := range cfg.FilePatterns {
		patterns = append(patterns, batch.Pattern{Glob: p, Exclusions: cfg.PathExclusionPatterns})
	}

	fs := fsys.NewOSFS()
	proc := batch.New(fs)

	showProgress := !opts.noProgress
	bar := progress.New(showProgress, -1)

	roots, err := resolveSearchRoots(cfg.SearchPaths)
	if err != nil {
		return fmt.Errorf("determine default search root: %w", err)
	}

	runOpts := batch.Options{
		Roots:     roots,
		Patterns:  patterns,
		Workers:   opts.workers,
		SkipEmpty: cfg.SkipEmptyPatterns,
		Logger:    log,
		Merge:     mergeCallback(fs, &mergeOptions{autoUseB: opts.autoUseB}),
		Status:    statusCallback(bar, opts.verbose),
		Continue:  continueCallback(opts.autoUseB),
		BeforeEach: func(pattern string) bool {
			if !cfg.PromptBeforeEachPattern {
				return true
			}
			return promptYesNo(fmt.Sprintf("run pattern %q?", pattern))
		},
	}

	ctx := context.Background()
	var results []batch.ItemResult
	if opts.legacy {
		results, err = proc.RunLegacy(ctx, runOpts)
	} else {
		results, err = proc.Run(ctx, runOpts)
	}
	bar.Finish(batchSummary(results))
	if err != nil {
		return err
	}

	reportBatchResults(results, opts.verbose)
	return nil
}

// resolveSearchRoots defaults searchPaths to the current working directory
// when empty, per BatchConfiguration's "empty = use default root" contract.
func resolveSearchRoots(searchPaths []string) ([]string, error) {
	if len(searchPaths) > 0 {
		return searchPaths, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return []string{wd}, nil
}

type batchSummaryStringer struct {
	results []batch.ItemResult
}

func batchSummary(results []batch.ItemResult) batchSummaryStringer {
	return batchSummaryStringer{results}
}

func (s batchSummaryStringer) String() string {
	merged := 0
	var bytes int64
	for _, r := range s.results {
		merged += len(r.Completion.Operations)
		bytes += mergedBytes(r.Completion.Operations)
	}
	return fmt.Sprintf("%d item(s) resolved, %d merge operation(s), %s written",
		len(s.results), merged, humanize.IBytes(uint64(bytes)))
}

func reportBatchResults(results []batch.ItemResult, verbose bool) {
	for _, r := range results {
		if !verbose {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", r.Item.Basename, summaryString(r.Completion).String())
	}
}
