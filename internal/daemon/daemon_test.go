package daemon_test

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"longbox/internal/api"
	"longbox/internal/daemon"
	"longbox/internal/logging"
	"longbox/internal/testsupport"
)

func TestDaemonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WriteArchive(t, filepath.Join(cfg.Paths.LibraryDir, "Foo", "Foo 001.cbz"), []testsupport.ArchiveEntry{
		{Name: "001.png", Data: []byte("page")},
	})

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)

	addr := d.Addr()
	if addr == "" {
		t.Fatal("Addr is empty after Start")
	}

	// The startup scan finished before the listener came up, so the
	// library is immediately visible.
	resp, err := http.Get("http://" + addr + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}
	var status api.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.SeriesCount != 1 || status.IssueCount != 1 {
		t.Fatalf("status = %+v, want one series and one issue", status)
	}

	daemonStatus := d.Status(ctx)
	if !daemonStatus.Running {
		t.Fatal("daemon status not running")
	}
	if daemonStatus.LockFilePath != cfg.LockPath() {
		t.Fatalf("lock path = %q, want %q", daemonStatus.LockFilePath, cfg.LockPath())
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("daemon still reports running after Stop")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(first.Stop)

	second, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	err = second.Start(context.Background())
	if err == nil {
		second.Stop()
		t.Fatal("second Start succeeded, want lock conflict")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("error = %v, want lock conflict", err)
	}
}

func TestDaemonRestartAfterStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d.Stop()

	// The lock is released on Stop, so a fresh daemon can take over.
	next, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New after stop: %v", err)
	}
	if err := next.Start(context.Background()); err != nil {
		t.Fatalf("Start after stop: %v", err)
	}
	next.Stop()
}
