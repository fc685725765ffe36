package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	original := BatchConfiguration{
		Name:                    "weekly-configs",
		Description:             "reconcile weekly exported configs",
		FilePatterns:            []string{"*.yaml", "*.json"},
		SearchPaths:             []string{"/srv/exports/a", "/srv/exports/b"},
		PathExclusionPatterns:   []string{"*/node_modules/*"},
		SkipEmptyPatterns:       true,
		PromptBeforeEachPattern: false,
	}

	if err := Save(path, original, now); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Name != original.Name || loaded.Description != original.Description {
		t.Fatalf("name/description mismatch: %+v", loaded)
	}
	if len(loaded.FilePatterns) != 2 || loaded.FilePatterns[0] != "*.yaml" {
		t.Fatalf("unexpected file patterns: %v", loaded.FilePatterns)
	}
	if !loaded.SkipEmptyPatterns {
		t.Fatalf("expected SkipEmptyPatterns to round-trip true")
	}
	if !loaded.LastModified.Equal(now) {
		t.Fatalf("expected LastModified %v, got %v", now, loaded.LastModified)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatalf("expected an error loading a nonexistent batch configuration")
	}
}

func TestSaveProducesCamelCaseKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	if err := Save(path, BatchConfiguration{Name: "x"}, time.Now().UTC()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data := string(raw)
	for _, key := range []string{`"name"`, `"filePatterns"`, `"searchPaths"`, `"pathExclusionPatterns"`, `"skipEmptyPatterns"`, `"promptBeforeEachPattern"`, `"lastModified"`} {
		if !strings.Contains(data, key) {
			t.Fatalf("expected serialized config to contain key %s, got:\n%s", key, data)
		}
	}
}
