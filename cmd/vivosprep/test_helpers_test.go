package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vivosprep/internal/config"
	"vivosprep/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	rawDir     string
	outDir     string
}

func setupCLITestEnv(t *testing.T, splits ...testsupport.Split) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithSplits("train"))
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"VIVOSPREP_RAW_DIR", "VIVOSPREP_PROCESSED_DIR", "VIVOSPREP_HISTORY_DSN", "VIVOSPREP_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	if len(splits) == 0 {
		splits = []testsupport.Split{testsupport.SampleSplit("train")}
	}
	testsupport.WriteRawCorpus(t, cfg.Paths.RawDir, splits...)

	configPath := filepath.Join(base, "vivosprep.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		rawDir:     cfg.Paths.RawDir,
		outDir:     cfg.Paths.ProcessedDir,
	}
}

func (e *cliTestEnv) dirFlags() []string {
	return []string{"--raw-dir", e.rawDir, "--processed-dir", e.outDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\nstate_dir = %q\n\n[corpus]\nsplits = [%s]\n\n[output]\ncheck_free_space = false\n\n[logging]\nlevel = \"warn\"\n",
		cfg.Paths.LogDir,
		cfg.Paths.StateDir,
		quoteList(cfg.Corpus.Splits),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
