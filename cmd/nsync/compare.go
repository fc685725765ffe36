package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nsync-tools/nsync/internal/comparator"
	"github.com/nsync-tools/nsync/internal/fsys"
)

type compareOptions struct {
	pattern   string
	recursive bool
}

// newCompareCmd creates the compare subcommand: compare_files (§6), a
// self-contained, non-interactive classification with no FileGroup
// involvement.
func newCompareCmd() *cobra.Command {
	opts := &compareOptions{pattern: "*", recursive: true}

	cmd := &cobra.Command{
		Use:   "compare <root-a> <root-b>",
		Short: "Classify files under two directory trees as same, modified, or present in only one",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCompare(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", opts.pattern, "Basename glob pattern to match")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", opts.recursive, "Recurse into subdirectories")

	return cmd
}

func runCompare(rootA, rootB string, opts *compareOptions) error {
	if err := validateGlobPatterns([]string{opts.pattern}); err != nil {
		return fmt.Errorf("invalid --pattern: %w", err)
	}

	result, err := comparator.Compare(context.Background(), fsys.NewOSFS(), rootA, rootB, opts.pattern, opts.recursive)
	if err != nil {
		return err
	}

	fmt.Println(result.String())
	printSection := func(title string, paths []string) {
		if len(paths) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
	}
	printSection("same", result.Same)
	printSection("modified", result.Modified)
	printSection("only in A", result.OnlyInA)
	printSection("only in B", result.OnlyInB)

	return nil
}
