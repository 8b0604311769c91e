package preflight

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vivosprep/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputTarget_Missing(t *testing.T) {
	base := t.TempDir()
	result := CheckOutputTarget("out", filepath.Join(base, "a", "b"))
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, base) {
		t.Fatalf("expected detail to name ancestor %s, got %q", base, result.Detail)
	}
}

func TestCheckOutputTarget_ExistingWithTrailingSlash(t *testing.T) {
	dir := t.TempDir()
	result := CheckOutputTarget("out", dir+string(filepath.Separator))
	if !result.Passed {
		t.Fatalf("expected pass for existing dir, got: %s", result.Detail)
	}
	if strings.Contains(result.Detail, "will be created") {
		t.Fatalf("existing dir reported as missing: %q", result.Detail)
	}
}

func TestCheckOutputTarget_UnderFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckOutputTarget("out", filepath.Join(f, "child"))
	if result.Passed {
		t.Fatal("expected failure when ancestor is a file")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet")
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass for 1 byte, got: %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, math.MaxInt64)
	if result.Passed {
		t.Fatal("expected failure for an impossible request")
	}
	if !strings.Contains(result.Detail, "available") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ProcessedDir = filepath.Join(base, "processed")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(&cfg, 1)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if err := Failed(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}

	cfg.Output.CheckFreeSpace = false
	if got := len(RunAll(&cfg, 1)); got != 3 {
		t.Fatalf("expected free space check to be skipped, got %d results", got)
	}
}

func TestFailedJoinsDetails(t *testing.T) {
	err := Failed([]Result{
		{Name: "A", Passed: true, Detail: "ok"},
		{Name: "B", Detail: "broken"},
		{Name: "C", Detail: "gone"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "preflight failed: B: broken; C: gone" {
		t.Fatalf("unexpected error %q", got)
	}
}
