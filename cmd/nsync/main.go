package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "nsync",
		Short:   "Reconcile diverged copies of matching files across directory trees",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newMergeCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newBatchCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
