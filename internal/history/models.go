package history

import "time"

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// SplitStats are the per-split counts of a finished run.
type SplitStats struct {
	Split      string `json:"split" yaml:"split"`
	Utterances int    `json:"utterances" yaml:"utterances"`
	Speakers   int    `json:"speakers" yaml:"speakers"`
	AudioFiles int    `json:"audio_files" yaml:"audio_files"`
	AudioBytes int64  `json:"audio_bytes" yaml:"audio_bytes"`
}

// Run is one recorded prepare invocation.
type Run struct {
	ID           string        `json:"id" yaml:"id"`
	RawDir       string        `json:"raw_dir" yaml:"raw_dir"`
	ProcessedDir string        `json:"processed_dir" yaml:"processed_dir"`
	Status       Status        `json:"status" yaml:"status"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time     `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Duration     time.Duration `json:"duration_ns" yaml:"duration"`
	Splits       []SplitStats  `json:"splits,omitempty" yaml:"splits,omitempty"`
}

// Totals sums the split stats.
func (r Run) Totals() SplitStats {
	total := SplitStats{Split: "total"}
	for _, s := range r.Splits {
		total.Utterances += s.Utterances
		total.Speakers += s.Speakers
		total.AudioFiles += s.AudioFiles
		total.AudioBytes += s.AudioBytes
	}
	return total
}
