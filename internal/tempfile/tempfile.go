// Package tempfile provides scoped acquisition of uniquely-named
// temporary files with guaranteed release. No other package in this
// repository uses it: merge output goes through the filesystem layer's
// own atomic write-then-rename.
//
// Grounded on the teacher's internal/deduper/links.go: both build a
// temp path next to the target, create it, and clean up on every
// failure path. Unlike links.go's orphan-sweep (which exists because
// hardlink temp names are deterministic and collide across runs), this
// package sidesteps collision entirely with cryptographically-random
// names and a bounded retry loop, so no nlink/mtime heuristics are
// needed.
package tempfile

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const maxNameAttempts = 100

// Handle is a scoped temporary file. Release must be called exactly once,
// on every exit path, to guarantee the backing file does not leak.
type Handle struct {
	Path string
	file *os.File
}

// Acquire creates a new, uniquely-named temporary file under dir (the
// platform temp directory when dir is ""), retrying up to 100 times with
// a fresh cryptographically-random name on collision.
func Acquire(dir string) (*Handle, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	var lastErr error
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name, err := randomName()
		if err != nil {
			return nil, fmt.Errorf("generate temp name: %w", err)
		}

		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
		if err == nil {
			return &Handle{Path: path, file: f}, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("tempfile: exhausted %d naming attempts: %w", maxNameAttempts, lastErr)
}

// Write writes b to the handle's backing file.
func (h *Handle) Write(b []byte) (int, error) {
	return h.file.Write(b)
}

// Release closes and removes the backing file. It is safe to call more
// than once; only the first call has effect. Errors from removal are
// returned but the file descriptor is always closed first.
func (h *Handle) Release() error {
	if h.file == nil {
		return nil
	}
	closeErr := h.file.Close()
	h.file = nil
	removeErr := os.Remove(h.Path)
	if os.IsNotExist(removeErr) {
		removeErr = nil
	}
	if closeErr != nil {
		return closeErr
	}
	return removeErr
}

func randomName() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return "nsync-" + hex.EncodeToString(buf[:]) + ".tmp", nil
}

// CheckWritable pre-flights dir by writing and then deleting a test file,
// confirming write permission before a caller commits to a larger
// operation that assumes a writable temp directory.
func CheckWritable(dir string) error {
	h, err := Acquire(dir)
	if err != nil {
		return fmt.Errorf("temp directory %s is not writable: %w", dir, err)
	}
	return h.Release()
}
