// Package config (de)serializes BatchConfiguration documents: the JSON
// description of a saved multi-pattern batch run (spec.md §6). This
// package is a pure data-structure concern — persistence location and
// interactive batch-history management are external collaborators, not
// part of the core, and are not implemented here.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// BatchConfiguration is the on-disk representation of a saved batch.
type BatchConfiguration struct {
	Name                    string    `json:"name"`
	Description             string    `json:"description"`
	FilePatterns            []string  `json:"filePatterns"`
	// SearchPaths lists the roots to search; empty means "use the default
	// root" (the caller's current working directory), per spec.md §6.
	SearchPaths             []string  `json:"searchPaths"`
	PathExclusionPatterns   []string  `json:"pathExclusionPatterns"`
	SkipEmptyPatterns       bool      `json:"skipEmptyPatterns"`
	PromptBeforeEachPattern bool      `json:"promptBeforeEachPattern"`
	LastModified            time.Time `json:"lastModified"`
}

// Load reads and parses a BatchConfiguration from path.
func Load(path string) (BatchConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BatchConfiguration{}, fmt.Errorf("read batch configuration: %w", err)
	}

	var cfg BatchConfiguration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return BatchConfiguration{}, fmt.Errorf("parse batch configuration: %w", err)
	}
	return cfg, nil
}

// Save serializes cfg as indented JSON to path, stamping LastModified with
// now. The caller supplies now (rather than config calling time.Now()
// itself) so save timestamps stay deterministic and testable.
func Save(path string, cfg BatchConfiguration, now time.Time) error {
	cfg.LastModified = now

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write batch configuration: %w", err)
	}
	return nil
}
