package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"longbox/internal/testsupport"
)

// writeCLIConfig writes a toml config pointing at the test's temp dirs and
// returns its path.
func writeCLIConfig(t *testing.T) string {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	content := fmt.Sprintf(
		"[paths]\nlibrary_dir = %q\ndata_dir = %q\nlog_dir = \"\"\napi_bind = %q\n",
		cfg.Paths.LibraryDir,
		cfg.Paths.DataDir,
		cfg.Paths.APIBind,
	)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func libraryDirFromConfig(t *testing.T, configPath string) string {
	t.Helper()

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "library_dir = ") {
			return strings.Trim(strings.TrimPrefix(line, "library_dir = "), `"`)
		}
	}
	t.Fatal("library_dir not found in config")
	return ""
}

func TestScanAndSeriesCommands(t *testing.T) {
	configPath := writeCLIConfig(t)
	libraryDir := libraryDirFromConfig(t, configPath)

	testsupport.WriteArchive(t, filepath.Join(libraryDir, "Foo", "Foo 001.cbz"), []testsupport.ArchiveEntry{
		{Name: "001.png", Data: []byte("page")},
	})

	out, _, err := runCLI(t, configPath, "scan", "--quiet")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Issues created:   1")

	out, _, err = runCLI(t, configPath, "series")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	requireContains(t, out, "Foo")
}

func TestIssuesShowAndProgressCommands(t *testing.T) {
	configPath := writeCLIConfig(t)
	libraryDir := libraryDirFromConfig(t, configPath)

	testsupport.WriteArchive(t, filepath.Join(libraryDir, "Foo", "Foo 001.cbz"), []testsupport.ArchiveEntry{
		{Name: "001.png", Data: []byte("page")},
	})
	if _, _, err := runCLI(t, configPath, "scan", "--quiet"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, configPath, "issues", "Foo")
	if err != nil {
		t.Fatalf("issues: %v", err)
	}
	requireContains(t, out, "Foo 001.cbz")

	// Pull the issue id out of the rendered table.
	var issueID string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Foo 001.cbz") {
			fields := strings.Fields(line)
			if len(fields) > 1 {
				issueID = fields[1]
			}
		}
	}
	if issueID == "" {
		t.Fatalf("could not extract issue id from output:\n%s", out)
	}

	out, _, err = runCLI(t, configPath, "progress", issueID, "3")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	requireContains(t, out, "page 3")

	out, _, err = runCLI(t, configPath, "show", issueID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Current page: 3")

	if _, _, err := runCLI(t, configPath, "progress", "--", issueID, "-1"); err == nil {
		t.Fatal("expected error for negative page")
	}
	if _, _, err := runCLI(t, configPath, "progress", "no-such-issue", "1"); err == nil {
		t.Fatal("expected error for unknown issue")
	}
}

func TestIssuesCommandUnknownSeries(t *testing.T) {
	configPath := writeCLIConfig(t)

	_, _, err := runCLI(t, configPath, "issues", "Nope")
	if err == nil {
		t.Fatal("expected error for unknown series")
	}
	requireContains(t, err.Error(), "no series")
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout.String(), "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	cmd = newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when config exists")
	}
}
