package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vivosprep/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	for _, key := range []string{"VIVOSPREP_RAW_DIR", "VIVOSPREP_PROCESSED_DIR", "VIVOSPREP_HISTORY_DSN", "VIVOSPREP_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return tempHome
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "vivosprep", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Paths.RawDir != "" || cfg.Paths.ProcessedDir != "" {
		t.Fatalf("expected corpus dirs unset, got %q / %q", cfg.Paths.RawDir, cfg.Paths.ProcessedDir)
	}
	if got := strings.Join(cfg.Corpus.Splits, ","); got != "train,test" {
		t.Fatalf("unexpected splits: %q", got)
	}
	if cfg.Corpus.WavExtension != ".wav" {
		t.Fatalf("unexpected wav extension: %q", cfg.Corpus.WavExtension)
	}
	if cfg.History.Driver != config.HistoryDriverSQLite {
		t.Fatalf("unexpected history driver: %q", cfg.History.Driver)
	}
	wantDSN := filepath.Join(tempHome, ".local", "share", "vivosprep", "history.db")
	if cfg.HistoryDSN() != wantDSN {
		t.Fatalf("unexpected history dsn: got %q want %q", cfg.HistoryDSN(), wantDSN)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vivosprep.toml")

	type payload struct {
		Paths struct {
			RawDir       string `toml:"raw_dir"`
			ProcessedDir string `toml:"processed_dir"`
		} `toml:"paths"`
		Corpus struct {
			Splits       []string `toml:"splits"`
			WavExtension string   `toml:"wav_extension"`
		} `toml:"corpus"`
		Output struct {
			Workers int `toml:"workers"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Paths.RawDir = filepath.Join(tempDir, "raw")
	custom.Paths.ProcessedDir = filepath.Join(tempDir, "out")
	custom.Corpus.Splits = []string{" dev ", "train", "dev"}
	custom.Corpus.WavExtension = "flac"
	custom.Output.Workers = 4
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.RawDir != custom.Paths.RawDir {
		t.Fatalf("unexpected raw dir: %q", cfg.Paths.RawDir)
	}
	if got := strings.Join(cfg.Corpus.Splits, ","); got != "dev,train" {
		t.Fatalf("expected trimmed, deduplicated splits, got %q", got)
	}
	if cfg.Corpus.WavExtension != ".flac" {
		t.Fatalf("expected dotted extension, got %q", cfg.Corpus.WavExtension)
	}
	if cfg.Output.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Output.Workers)
	}
}

func TestEnvFallbacksForCorpusDirs(t *testing.T) {
	isolateEnv(t)
	base := t.TempDir()
	t.Setenv("VIVOSPREP_RAW_DIR", filepath.Join(base, "raw"))
	t.Setenv("VIVOSPREP_PROCESSED_DIR", filepath.Join(base, "processed"))
	t.Setenv("VIVOSPREP_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.RawDir != filepath.Join(base, "raw") {
		t.Fatalf("expected raw dir from env, got %q", cfg.Paths.RawDir)
	}
	if cfg.Paths.ProcessedDir != filepath.Join(base, "processed") {
		t.Fatalf("expected processed dir from env, got %q", cfg.Paths.ProcessedDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected log level from env, got %q", cfg.Logging.Level)
	}
	if err := cfg.RequireCorpusDirs(); err != nil {
		t.Fatalf("RequireCorpusDirs: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolateEnv(t)
	base := t.TempDir()
	envPath := filepath.Join(base, ".env")
	content := "VIVOSPREP_RAW_DIR=" + filepath.Join(base, "from-dotenv") + "\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already present.
	if err := os.Unsetenv("VIVOSPREP_RAW_DIR"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("VIVOSPREP_RAW_DIR") })

	if err := config.LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.RawDir != filepath.Join(base, "from-dotenv") {
		t.Fatalf("expected raw dir from dotenv, got %q", cfg.Paths.RawDir)
	}

	if err := config.LoadEnvFile(filepath.Join(base, "missing.env")); err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestSetCorpusDirsOverridesConfig(t *testing.T) {
	isolateEnv(t)
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.RequireCorpusDirs(); err == nil {
		t.Fatal("expected error when corpus dirs are unset")
	}
	base := t.TempDir()
	if err := cfg.SetCorpusDirs(filepath.Join(base, "raw"), ""); err != nil {
		t.Fatal(err)
	}
	if err := cfg.RequireCorpusDirs(); err == nil || !strings.Contains(err.Error(), "processed") {
		t.Fatalf("expected processed dir error, got %v", err)
	}
	if err := cfg.SetCorpusDirs("", filepath.Join(base, "out")); err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.RawDir != filepath.Join(base, "raw") {
		t.Fatalf("raw dir overwritten by empty flag: %q", cfg.Paths.RawDir)
	}
	if err := cfg.RequireCorpusDirs(); err != nil {
		t.Fatalf("RequireCorpusDirs: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"no splits", func(c *config.Config) { c.Corpus.Splits = nil }, "corpus.splits"},
		{"nested split", func(c *config.Config) { c.Corpus.Splits = []string{"a/b"} }, "single path segment"},
		{"reserved split", func(c *config.Config) { c.Corpus.Splits = []string{"local"} }, "local"},
		{"empty prompts", func(c *config.Config) { c.Corpus.PromptsFile = "" }, "corpus.prompts_file"},
		{"workers", func(c *config.Config) { c.Output.Workers = 0 }, "output.workers"},
		{"driver", func(c *config.Config) { c.History.Driver = "postgres" }, "history.driver"},
		{"mysql dsn", func(c *config.Config) { c.History.Driver = config.HistoryDriverMySQL }, "history.dsn"},
		{"level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestHistoryDisabledSkipsDriverValidation(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false
	cfg.History.Driver = "bogus"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled history to skip validation, got %v", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Output.Workers != 1 || !cfg.History.Enabled {
		t.Fatalf("unexpected sample values: %+v", cfg.Output)
	}
}
