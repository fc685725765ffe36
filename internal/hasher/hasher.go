// Package hasher stream-hashes file content to a stable fingerprint.
//
// The fingerprint is FNV-1a, 64-bit variant, emitted as 16 lowercase hex
// digits. FNV-1a is streamable, order-sensitive and cheap; collision
// resistance is not a requirement here, only distinguishing distinct file
// contents under non-adversarial conditions.
package hasher

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"os"

	"golang.org/x/sync/semaphore"
)

const blockSize = 64 * 1024

// Hash streams path through FNV-1a 64-bit and returns its hex fingerprint.
func Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	return hashReader(f)
}

// HashBytes fingerprints an in-memory byte slice.
func HashBytes(b []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return encode(h)
}

// HashString UTF-8 encodes s and fingerprints the resulting bytes.
func HashString(s string) string {
	return HashBytes([]byte(s))
}

func hashReader(r io.Reader) (string, error) {
	h := fnv.New64a()
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return encode(h), nil
}

func encode(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// HashMany hashes paths with up to parallelism concurrent readers, using a
// weighted semaphore so the pool is responsive to ctx cancellation even
// while a worker is blocked waiting for a slot.
//
// Order of completion is not preserved. The returned map is keyed by path.
// Per-file errors are returned alongside the map rather than aborting the
// whole batch; the caller decides whether to drop the file or abort the run.
func HashMany(ctx context.Context, paths []string, parallelism int) (map[string]string, []error) {
	if parallelism < 1 {
		parallelism = 1
	}

	sem := semaphore.NewWeighted(int64(parallelism))

	type result struct {
		path string
		hash string
		err  error
	}
	results := make(chan result, len(paths))

	for _, p := range paths {
		p := p
		if err := sem.Acquire(ctx, 1); err != nil {
			results <- result{path: p, err: err}
			continue
		}
		go func() {
			defer sem.Release(1)
			h, err := Hash(p)
			if err != nil {
				err = fmt.Errorf("hash %s: %w", p, err)
			}
			results <- result{path: p, hash: h, err: err}
		}()
	}

	out := make(map[string]string, len(paths))
	var errs []error
	for range paths {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		out[r.path] = r.hash
	}
	return out, errs
}
