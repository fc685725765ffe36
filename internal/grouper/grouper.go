// Package grouper partitions discovered paths first by basename, then by
// content fingerprint within each basename bucket.
//
// This two-level policy is the central safety invariant of nsync: paths
// with different basenames are never placed in the same group even if
// their content is identical, which prevents e.g. "app.config" and
// "web.config" (both matched by "*.config") from ever being considered
// for merging.
//
// Grounded on the teacher's internal/screener package: group-by-key-then-
// filter over a map, the same map-then-filter shape as screener's
// bySize/groupByIno.
package grouper

import (
	"context"
	"path/filepath"

	"github.com/nsync-tools/nsync/internal/hasher"
	"github.com/nsync-tools/nsync/internal/model"
)

// Group partitions paths into FileGroups: first by basename, then by
// content hash within each basename bucket. Hashing is performed through
// the parallel hasher. Every successfully hashed path appears in exactly
// one resulting group; paths that fail to hash are left out of every group
// and reported in the returned error slice.
func Group(ctx context.Context, paths []string, parallelism int) ([]model.FileGroup, []error) {
	hashes, errs := hasher.HashMany(ctx, paths, parallelism)

	hashed := make([]string, 0, len(hashes))
	for p := range hashes {
		hashed = append(hashed, p)
	}

	byBasename := make(map[string][]string)
	for _, p := range hashed {
		base := filepath.Base(p)
		byBasename[base] = append(byBasename[base], p)
	}

	var groups []model.FileGroup
	for _, pathsForBase := range byBasename {
		byHash := make(map[string][]string)
		for _, p := range pathsForBase {
			h := hashes[p]
			byHash[h] = append(byHash[h], p)
		}
		for h, ps := range byHash {
			groups = append(groups, model.NewFileGroup(h, ps))
		}
	}

	return groups, errs
}
