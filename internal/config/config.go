package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains corpus and state directory configuration.
type Paths struct {
	RawDir       string `toml:"raw_dir"`
	ProcessedDir string `toml:"processed_dir"`
	LogDir       string `toml:"log_dir"`
	StateDir     string `toml:"state_dir"`
}

// Corpus describes the raw corpus layout.
type Corpus struct {
	Splits       []string `toml:"splits"`
	AudioDir     string   `toml:"audio_dir"`
	PromptsFile  string   `toml:"prompts_file"`
	GendersFile  string   `toml:"genders_file"`
	WavExtension string   `toml:"wav_extension"`
}

// Output contains knobs for how the processed tree is written.
type Output struct {
	Workers        int  `toml:"workers"`
	VerifyCopies   bool `toml:"verify_copies"`
	CorpusText     bool `toml:"corpus_text"`
	CheckFreeSpace bool `toml:"check_free_space"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vivosprep.
//
// Configuration sections:
//   - Paths: raw corpus, processed output, logs and state
//   - Corpus: raw layout names and the split list
//   - Output: copy workers, copy verification, optional corpus text
//   - History: run history database
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Corpus  Corpus  `toml:"corpus"`
	Output  Output  `toml:"output"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// LoadEnvFile reads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set win.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := godotenv.Load(expanded); err != nil {
		return fmt.Errorf("load env file %s: %w", expanded, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vivosprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories.
// Corpus directories are never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDSN returns the data source name for the history database. For
// sqlite an empty DSN resolves to history.db inside the state directory.
func (c *Config) HistoryDSN() string {
	if dsn := strings.TrimSpace(c.History.DSN); dsn != "" {
		return dsn
	}
	if c.History.Driver == HistoryDriverSQLite {
		return filepath.Join(c.Paths.StateDir, "history.db")
	}
	return ""
}

// LockDir returns the directory that holds per-output run locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// SetCorpusDirs overrides the raw and processed directories, typically from
// command-line flags. Empty values keep the configured directory.
func (c *Config) SetCorpusDirs(rawDir, processedDir string) error {
	var err error
	if rawDir = strings.TrimSpace(rawDir); rawDir != "" {
		if c.Paths.RawDir, err = expandPath(rawDir); err != nil {
			return fmt.Errorf("raw dir: %w", err)
		}
	}
	if processedDir = strings.TrimSpace(processedDir); processedDir != "" {
		if c.Paths.ProcessedDir, err = expandPath(processedDir); err != nil {
			return fmt.Errorf("processed dir: %w", err)
		}
	}
	return nil
}

// RequireCorpusDirs reports an error when either corpus directory is unset.
func (c *Config) RequireCorpusDirs() error {
	if c.Paths.RawDir == "" {
		return errors.New("raw corpus directory is required (--raw-dir, paths.raw_dir or VIVOSPREP_RAW_DIR)")
	}
	if c.Paths.ProcessedDir == "" {
		return errors.New("processed directory is required (--processed-dir, paths.processed_dir or VIVOSPREP_PROCESSED_DIR)")
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
