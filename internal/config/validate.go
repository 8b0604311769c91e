package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if len(c.Corpus.Splits) == 0 {
		return errors.New("corpus.splits must include at least one split")
	}
	for _, split := range c.Corpus.Splits {
		if err := ensureSegment("corpus.splits", split); err != nil {
			return err
		}
		// local is reserved for data/local
		if split == "local" {
			return errors.New("corpus.splits must not contain \"local\"")
		}
	}
	for key, value := range map[string]string{
		"corpus.audio_dir":    c.Corpus.AudioDir,
		"corpus.prompts_file": c.Corpus.PromptsFile,
		"corpus.genders_file": c.Corpus.GendersFile,
	} {
		if err := ensureSegment(key, value); err != nil {
			return err
		}
	}
	if strings.ContainsAny(c.Corpus.WavExtension, `/\`) {
		return fmt.Errorf("corpus.wav_extension %q must not contain path separators", c.Corpus.WavExtension)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Workers <= 0 {
		return errors.New("output.workers must be positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	switch c.History.Driver {
	case HistoryDriverSQLite:
		return nil
	case HistoryDriverMySQL:
		if c.History.DSN == "" {
			return errors.New("history.dsn must be set when history.driver is \"mysql\" (or set VIVOSPREP_HISTORY_DSN)")
		}
		return nil
	default:
		return fmt.Errorf("history.driver: unsupported value %q (want %q or %q)", c.History.Driver, HistoryDriverSQLite, HistoryDriverMySQL)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensureSegment(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	if value == "." || value == ".." || filepath.Base(value) != value {
		return fmt.Errorf("%s %q must be a single path segment", key, value)
	}
	return nil
}
