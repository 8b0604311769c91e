package preflight

import (
	"errors"
	"strings"

	"vivosprep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to a prepare run copying needBytes
// of audio. The free space check is skipped when disabled in config.
func RunAll(cfg *config.Config, needBytes int64) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckOutputTarget("Processed directory", cfg.Paths.ProcessedDir))

	if cfg.Output.CheckFreeSpace {
		results = append(results, CheckFreeSpace("Free space", cfg.Paths.ProcessedDir, needBytes))
	}

	return results
}

// Failed joins every failed result into one error, or returns nil.
func Failed(results []Result) error {
	var failures []string
	for _, r := range results {
		if !r.Passed {
			failures = append(failures, r.Name+": "+r.Detail)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.New("preflight failed: " + strings.Join(failures, "; "))
}
