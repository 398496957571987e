package testsupport

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ArchiveEntry describes one file inside a test archive. Names ending in "/"
// become directory entries.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// WriteArchive writes a zip archive with the given entries to path, creating
// parent directories as needed.
func WriteArchive(t testing.TB, path string, entries []ArchiveEntry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir archive dir: %v", err)
	}
	if err := os.WriteFile(path, ArchiveBytes(t, entries), 0o644); err != nil {
		t.Fatalf("write archive %s: %v", path, err)
	}
}

// ArchiveBytes builds a zip archive in memory.
func ArchiveBytes(t testing.TB, entries []ArchiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			t.Fatalf("create entry %s: %v", entry.Name, err)
		}
		if strings.HasSuffix(entry.Name, "/") {
			continue
		}
		if _, err := f.Write(entry.Data); err != nil {
			t.Fatalf("write entry %s: %v", entry.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}
