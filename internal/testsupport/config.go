package testsupport

import (
	"path/filepath"
	"testing"

	"vivosprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The raw and processed directories are set but not created; history uses a
// sqlite file in the state directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RawDir = filepath.Join(base, "raw")
	cfgVal.Paths.ProcessedDir = filepath.Join(base, "processed")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Output.CheckFreeSpace = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSplits replaces the split list.
func WithSplits(splits ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Corpus.Splits = append([]string(nil), splits...)
	}
}

// WithWorkers sets the number of concurrent speaker copies.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Workers = n
	}
}

// WithCorpusText enables data/local/corpus.txt.
func WithCorpusText() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.CorpusText = true
	}
}

// WithoutHistory disables the run history store.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
