package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFSWriteTextThenReadLinesRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	fs := NewOSFS()

	lines := []string{"one", "two", "three"}
	if err := fs.WriteText(path, lines); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	got, err := fs.ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(got) != 3 || got[0] != "one" || got[2] != "three" {
		t.Fatalf("expected round-tripped lines, got %v", got)
	}
}

func TestOSFSWriteTextLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	fs := NewOSFS()

	if err := fs.WriteText(path, []string{"content"}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "f.txt" {
		t.Fatalf("expected exactly the target file and no stray temp file, got %v", entries)
	}
}

func TestOSFSExistsAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	fs := NewOSFS()

	if fs.Exists(path) {
		t.Fatalf("expected file to not exist before creation")
	}
	if err := fs.WriteText(path, []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if !fs.Exists(path) {
		t.Fatalf("expected file to exist after WriteText")
	}
	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fs.Exists(path) {
		t.Fatalf("expected file to no longer exist after Remove")
	}
}

func TestMemFSSeedThenReadLines(t *testing.T) {
	fs := NewMemFS()
	fs.Seed("/a/f.txt", []string{"x", "y"})

	got, err := fs.ReadLines("/a/f.txt")
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(got) != 2 || got[0] != "x" {
		t.Fatalf("unexpected lines: %v", got)
	}
	if !fs.Exists("/a") {
		t.Fatalf("expected parent directory to be marked as existing after Seed")
	}
}

func TestMemFSWriteTextThenReadLinesRoundTrips(t *testing.T) {
	fs := NewMemFS()
	if err := fs.WriteText("/a/b/f.txt", []string{"one", "two"}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got, err := fs.ReadLines("/a/b/f.txt")
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected lines: %v", got)
	}
}

func TestMemFSReadMissingFileErrors(t *testing.T) {
	fs := NewMemFS()
	if _, err := fs.ReadLines("/nope.txt"); err == nil {
		t.Fatalf("expected an error reading a file that was never written")
	}
}

func TestMemFSListFilesReturnsSortedDirectChildren(t *testing.T) {
	fs := NewMemFS()
	fs.Seed("/a/z.txt", []string{"z"})
	fs.Seed("/a/b.txt", []string{"b"})
	fs.Seed("/a/sub/c.txt", []string{"c"})

	files, err := fs.ListFiles("/a")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 || files[0] != "/a/b.txt" || files[1] != "/a/z.txt" {
		t.Fatalf("expected sorted direct children only, got %v", files)
	}
}
