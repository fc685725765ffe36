package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindMatchesPatternRecursively(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.yaml"))
	touch(t, filepath.Join(root, "sub", "b.yaml"))
	touch(t, filepath.Join(root, "sub", "deeper", "c.yaml"))
	touch(t, filepath.Join(root, "ignore.txt"))

	found, err := Find(context.Background(), []string{root}, "*.yaml", nil, 4, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 matches, got %d: %v", len(found), found)
	}
}

func TestFindSkipsSubmoduleDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.yaml"))

	submodule := filepath.Join(root, "vendor", "dep")
	if err := os.MkdirAll(submodule, 0o755); err != nil {
		t.Fatal(err)
	}
	// A ".git" FILE (not directory) marks a nested repository checkout.
	if err := os.WriteFile(filepath.Join(submodule, ".git"), []byte("gitdir: ../../.git/modules/dep"), 0o644); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(submodule, "inside.yaml"))

	found, err := Find(context.Background(), []string{root}, "*.yaml", nil, 4, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected the submodule's contents to be skipped, got %v", found)
	}
}

func TestFindHonorsInteriorComponentExclusion(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.yaml"))
	touch(t, filepath.Join(root, "node_modules", "dep.yaml"))

	found, err := Find(context.Background(), []string{root}, "*.yaml", []string{"*/node_modules/*"}, 4, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected node_modules subtree excluded, got %v", found)
	}
}

func TestFindHonorsSubstringExclusion(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep", "a.yaml"))
	touch(t, filepath.Join(root, "build-cache", "b.yaml"))

	found, err := Find(context.Background(), []string{root}, "*.yaml", []string{"*cache*"}, 4, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected build-cache excluded via substring match, got %v", found)
	}
}

func TestFindHonorsPrefixExclusion(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep", "a.yaml"))
	touch(t, filepath.Join(root, "tmp-work", "b.yaml"))

	found, err := Find(context.Background(), []string{root}, "*.yaml", []string{"tmp-*"}, 4, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected tmp-work excluded via prefix match, got %v", found)
	}
}

func TestFindSwallowsPermissionDeniedSubdirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory permission checks")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.yaml"))

	locked := filepath.Join(root, "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(locked, "hidden.yaml"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(locked, 0o755)

	found, err := Find(context.Background(), []string{root}, "*.yaml", nil, 4, nil)
	if err != nil {
		t.Fatalf("Find should swallow permission errors, got: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected the unreadable subtree to be silently skipped, got %v", found)
	}
}

func TestFindReportsProgressPerFile(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.yaml"))
	touch(t, filepath.Join(root, "b.yaml"))

	var seen []string
	_, err := Find(context.Background(), []string{root}, "*.yaml", nil, 4, func(path string) {
		seen = append(seen, path)
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected onProgress called once per match, got %d calls", len(seen))
	}
}

func TestMatchRegexFallbackHandlesUnboundedWildcardQuickly(t *testing.T) {
	// A pathological-looking pattern that would blow up a backtracking
	// engine; Go's RE2-based regexp is linear time so this must return fast.
	if !matchRegexFallback("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaab",
		"a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*a*b") {
		t.Fatalf("expected the regex fallback to match within the timeout")
	}
}
