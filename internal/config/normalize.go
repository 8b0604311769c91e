package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCorpus()
	c.normalizeOutput()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if c.Paths.RawDir == "" {
		if value, ok := os.LookupEnv("VIVOSPREP_RAW_DIR"); ok {
			c.Paths.RawDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.ProcessedDir == "" {
		if value, ok := os.LookupEnv("VIVOSPREP_PROCESSED_DIR"); ok {
			c.Paths.ProcessedDir = strings.TrimSpace(value)
		}
	}

	var err error
	if c.Paths.RawDir, err = expandPath(strings.TrimSpace(c.Paths.RawDir)); err != nil {
		return fmt.Errorf("paths.raw_dir: %w", err)
	}
	if c.Paths.ProcessedDir, err = expandPath(strings.TrimSpace(c.Paths.ProcessedDir)); err != nil {
		return fmt.Errorf("paths.processed_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCorpus() {
	if len(c.Corpus.Splits) == 0 {
		c.Corpus.Splits = append([]string(nil), defaultSplits...)
	} else {
		splits := make([]string, 0, len(c.Corpus.Splits))
		seen := make(map[string]struct{}, len(c.Corpus.Splits))
		for _, split := range c.Corpus.Splits {
			normalized := strings.TrimSpace(split)
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			splits = append(splits, normalized)
		}
		c.Corpus.Splits = splits
	}
	c.Corpus.AudioDir = strings.TrimSpace(c.Corpus.AudioDir)
	if c.Corpus.AudioDir == "" {
		c.Corpus.AudioDir = defaultAudioDir
	}
	c.Corpus.PromptsFile = strings.TrimSpace(c.Corpus.PromptsFile)
	if c.Corpus.PromptsFile == "" {
		c.Corpus.PromptsFile = defaultPromptsFile
	}
	c.Corpus.GendersFile = strings.TrimSpace(c.Corpus.GendersFile)
	if c.Corpus.GendersFile == "" {
		c.Corpus.GendersFile = defaultGendersFile
	}
	c.Corpus.WavExtension = strings.TrimSpace(c.Corpus.WavExtension)
	if c.Corpus.WavExtension == "" {
		c.Corpus.WavExtension = defaultWavExtension
	}
	if !strings.HasPrefix(c.Corpus.WavExtension, ".") {
		c.Corpus.WavExtension = "." + c.Corpus.WavExtension
	}
}

func (c *Config) normalizeOutput() {
	if c.Output.Workers <= 0 {
		c.Output.Workers = defaultWorkers
	}
}

func (c *Config) normalizeHistory() {
	c.History.Driver = strings.ToLower(strings.TrimSpace(c.History.Driver))
	switch c.History.Driver {
	case "", "sqlite3":
		c.History.Driver = HistoryDriverSQLite
	case "mariadb":
		c.History.Driver = HistoryDriverMySQL
	}
	c.History.DSN = strings.TrimSpace(c.History.DSN)
	if c.History.DSN == "" {
		if value, ok := os.LookupEnv("VIVOSPREP_HISTORY_DSN"); ok {
			c.History.DSN = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("VIVOSPREP_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
