package hasher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestHashIsDeterministicAndContentSensitive(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.txt")
	pathB := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(pathA, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("hello there"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := Hash(pathA)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h1Again, err := Hash(pathA)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h1Again {
		t.Fatalf("expected deterministic hash, got %s and %s", h1, h1Again)
	}

	h2, err := Hash(pathB)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different content to hash differently")
	}
}

func TestHashBytesMatchesHashOfEquivalentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	content := []byte("the quick brown fox")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := Hash(path)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	fromBytes := HashBytes(content)
	if fromFile != fromBytes {
		t.Fatalf("expected Hash(path) == HashBytes(content), got %s vs %s", fromFile, fromBytes)
	}
}

func TestHashStringDelegatesToHashBytes(t *testing.T) {
	if HashString("abc") != HashBytes([]byte("abc")) {
		t.Fatalf("expected HashString to match HashBytes of the same bytes")
	}
}

func TestHashManyHashesEveryPathAndReportsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		if err := os.WriteFile(p, []byte(p), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	missing := filepath.Join(dir, "missing.txt")
	paths = append(paths, missing)

	results, errs := HashMany(context.Background(), paths, 3)

	if len(results) != 5 {
		t.Fatalf("expected 5 successful hashes, got %d", len(results))
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for the missing file, got %d: %v", len(errs), errs)
	}
	if _, ok := results[missing]; ok {
		t.Fatalf("expected missing file to be absent from results")
	}
}

func TestHashManyRespectsContextCancellation(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, errs := HashMany(ctx, paths, 1)
	if len(results)+len(errs) != len(paths) {
		t.Fatalf("expected every path to be accounted for as either a result or an error, got %d results, %d errs for %d paths", len(results), len(errs), len(paths))
	}
}
