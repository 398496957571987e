// Package testsupport provides shared fixtures for longbox tests: temp-dir
// configs, opened stores, and in-memory comic archives.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"longbox/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
// The library directory exists and is empty.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = ""
	cfg.Paths.APIBind = "127.0.0.1:0"

	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library dir: %v", err)
	}
	return &cfg
}
