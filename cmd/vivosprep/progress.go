package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"vivosprep/internal/convert"
)

// copyProgress renders audio copy progress on a terminal.
type copyProgress struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	byBytes bool
}

func newCopyProgress(out io.Writer) *copyProgress {
	return &copyProgress{out: out}
}

func (p *copyProgress) Start(files int, bytes int64) {
	options := []progressbar.Option{
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("copying audio"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100 * time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	}
	p.byBytes = bytes > 0
	if p.byBytes {
		options = append(options, progressbar.OptionShowBytes(true))
		p.bar = progressbar.NewOptions64(bytes, options...)
		return
	}
	options = append(options, progressbar.OptionShowCount())
	p.bar = progressbar.NewOptions(files, options...)
}

func (p *copyProgress) Advance(_ convert.AudioJob, copied int64) {
	if p.bar == nil {
		return
	}
	if p.byBytes {
		_ = p.bar.Add64(copied)
		return
	}
	_ = p.bar.Add(1)
}

func (p *copyProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
