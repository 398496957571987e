package testsupport

import (
	"context"
	"testing"

	"longbox/internal/config"
	"longbox/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustCreateIssue indexes an issue under a series created on demand.
func MustCreateIssue(t testing.TB, store *library.Store, seriesName, relPath, fileName string) *library.Issue {
	t.Helper()

	ctx := context.Background()
	series, _, err := store.GetOrCreateSeries(ctx, seriesName, seriesName)
	if err != nil {
		t.Fatalf("GetOrCreateSeries: %v", err)
	}
	issue, err := store.CreateIssue(ctx, series.ID, relPath, fileName)
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	return issue
}
