package convert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vivosprep/internal/config"
	"vivosprep/internal/corpus"
	"vivosprep/internal/kaldi"
	"vivosprep/internal/layout"
	"vivosprep/internal/logging"
)

// Options configures a Converter.
type Options struct {
	Splits    []string
	Raw       layout.Raw
	Processed layout.Processed
	// Workers bounds how many speakers are copied at once. Values below 1 mean 1.
	Workers    int
	CorpusText bool
}

// Progress observes audio copying. Advance may be called from several
// goroutines but never concurrently.
type Progress interface {
	Start(files int, bytes int64)
	Advance(job AudioJob, copied int64)
	Finish()
}

// SplitReport summarizes one converted split.
type SplitReport struct {
	Split      string
	Utterances int
	Speakers   int
	AudioFiles int
	AudioBytes int64
}

// Report summarizes a converter run.
type Report struct {
	Splits   []SplitReport
	Duration time.Duration
}

// Totals sums every split.
func (r *Report) Totals() SplitReport {
	total := SplitReport{Split: "total"}
	if r == nil {
		return total
	}
	for _, s := range r.Splits {
		total.Utterances += s.Utterances
		total.Speakers += s.Speakers
		total.AudioFiles += s.AudioFiles
		total.AudioBytes += s.AudioBytes
	}
	return total
}

// Converter turns a raw corpus into the processed Kaldi tree.
type Converter struct {
	opts     Options
	fs       FS
	logger   *slog.Logger
	progress Progress
	now      func() time.Time
}

// Option customizes a Converter.
type Option func(*Converter)

// WithProgress reports audio copy progress to p.
func WithProgress(p Progress) Option {
	return func(c *Converter) {
		c.progress = p
	}
}

// WithClock overrides the clock used for run durations.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a Converter over fsys.
func New(opts Options, fsys FS, logger *slog.Logger, options ...Option) *Converter {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if fsys == nil {
		fsys = OSFS{}
	}
	c := &Converter{
		opts:   opts,
		fs:     fsys,
		logger: logging.NewComponentLogger(logger, "convert"),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// NewFromConfig builds a Converter over the real filesystem.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, options ...Option) *Converter {
	opts := Options{
		Splits:     append([]string(nil), cfg.Corpus.Splits...),
		Raw:        layout.NewRaw(cfg),
		Processed:  layout.NewProcessed(cfg),
		Workers:    cfg.Output.Workers,
		CorpusText: cfg.Output.CorpusText,
	}
	return New(opts, OSFS{Verify: cfg.Output.VerifyCopies}, logger, options...)
}

// Run plans and applies a full conversion.
func (c *Converter) Run(ctx context.Context) (*Report, error) {
	plan, err := c.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return c.Apply(ctx, plan)
}

// Apply writes the processed tree described by plan. The audio mirror of
// every planned split is rebuilt from scratch; other outputs are overwritten.
func (c *Converter) Apply(ctx context.Context, plan *Plan) (*Report, error) {
	start := c.now()
	if err := c.ClearAudio(ctx, plan); err != nil {
		return nil, err
	}
	if err := c.Scaffold(ctx); err != nil {
		return nil, err
	}
	copied, err := c.Relocate(ctx, plan)
	if err != nil {
		return nil, err
	}
	if err := c.Emit(ctx, plan); err != nil {
		return nil, err
	}

	report := &Report{Splits: make([]SplitReport, 0, len(plan.Splits))}
	for _, sp := range plan.Splits {
		report.Splits = append(report.Splits, SplitReport{
			Split:      sp.Split,
			Utterances: len(sp.Manifest.Utterances),
			Speakers:   len(sp.Manifest.Speakers()),
			AudioFiles: len(sp.Audio),
			AudioBytes: copied[sp.Split],
		})
	}
	report.Duration = c.now().Sub(start)
	logging.WithContext(ctx, c.logger).Info("conversion complete",
		logging.String("processed_dir", c.opts.Processed.Root),
		logging.Int("splits", len(report.Splits)),
		logging.Int("audio_files", report.Totals().AudioFiles),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

// Scaffold creates the processed directory skeleton.
func (c *Converter) Scaffold(ctx context.Context) error {
	for _, dir := range c.opts.Processed.Directories(c.opts.Splits) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.fs.MkdirAll(dir); err != nil {
			return corpus.Wrap(corpus.ErrFilesystem, "", "create directory", dir, err)
		}
	}
	return nil
}

// ClearAudio removes audio/<split> for every planned split so files left by
// an earlier run over a different raw tree do not survive. data/ is left
// alone; its tables are overwritten by Emit.
func (c *Converter) ClearAudio(ctx context.Context, plan *Plan) error {
	for _, sp := range plan.Splits {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := c.opts.Processed.AudioSplit(sp.Split)
		if err := c.fs.RemoveAll(dir); err != nil {
			return corpus.Wrap(corpus.ErrFilesystem, sp.Split, "clear audio", dir, err)
		}
	}
	return nil
}

type speakerBatch struct {
	split string
	jobs  []AudioJob
}

// Relocate copies every planned audio file to its renamed destination and
// returns the bytes copied per split.
func (c *Converter) Relocate(ctx context.Context, plan *Plan) (map[string]int64, error) {
	var batches []speakerBatch
	for _, sp := range plan.Splits {
		index := make(map[string]int)
		for _, job := range sp.Audio {
			i, ok := index[job.Speaker]
			if !ok {
				i = len(batches)
				index[job.Speaker] = i
				batches = append(batches, speakerBatch{split: sp.Split})
			}
			batches[i].jobs = append(batches[i].jobs, job)
		}
	}

	for _, sp := range plan.Splits {
		for _, dir := range sp.Dirs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := c.fs.MkdirAll(dir); err != nil {
				return nil, corpus.Wrap(corpus.ErrFilesystem, sp.Split, "create speaker directory", dir, err)
			}
		}
	}

	if c.progress != nil {
		c.progress.Start(plan.AudioFiles(), plan.AudioBytes())
		defer c.progress.Finish()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		done     int
		total    = plan.AudioFiles()
		sampler  = logging.NewProgressSampler(25)
		copied   = make(map[string]int64, len(plan.Splits))
		sem      = make(chan struct{}, c.opts.Workers)
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for _, batch := range batches {
		sem <- struct{}{}
		if failed() {
			<-sem
			break
		}
		if err := ctx.Err(); err != nil {
			<-sem
			fail(err)
			break
		}
		wg.Add(1)
		go func(batch speakerBatch) {
			defer wg.Done()
			defer func() { <-sem }()
			err := c.copySpeaker(ctx, batch, func(job AudioJob, n int64) {
				mu.Lock()
				defer mu.Unlock()
				copied[batch.split] += n
				done++
				if c.progress != nil {
					c.progress.Advance(job, n)
				}
				if pct := float64(done) * 100 / float64(total); sampler.ShouldLog(pct) {
					logging.WithContext(ctx, c.logger).Info("audio copy progress",
						logging.Int("files_done", done),
						logging.Int("files_total", total),
						logging.Int("percent", int(pct)),
					)
				}
			})
			if err != nil {
				fail(err)
			}
		}(batch)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return copied, nil
}

func (c *Converter) copySpeaker(ctx context.Context, batch speakerBatch, done func(AudioJob, int64)) error {
	for _, job := range batch.jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := c.fs.CopyFile(job.Source, job.Dest)
		if err != nil {
			return corpus.Wrap(corpus.ErrFilesystem, batch.split, "copy audio "+job.Source, job.Dest, err)
		}
		done(job, n)
	}
	if len(batch.jobs) > 0 {
		c.logger.Debug("speaker audio copied",
			logging.String(logging.FieldSplit, batch.split),
			logging.String(logging.FieldSpeaker, batch.jobs[0].Speaker),
			logging.Int("files", len(batch.jobs)),
		)
	}
	return nil
}

// Emit writes the per-split Kaldi tables and, when enabled, the corpus text.
func (c *Converter) Emit(ctx context.Context, plan *Plan) error {
	processed := c.opts.Processed
	for _, sp := range plan.Splits {
		if err := ctx.Err(); err != nil {
			return err
		}
		artifacts := []struct {
			name string
			path string
			data []byte
		}{
			{layout.TextFile, processed.Text(sp.Split), kaldi.RenderText(sp.Manifest)},
			{layout.WavScpFile, processed.WavScp(sp.Split), kaldi.RenderWavScp(sp.Manifest, processed)},
			{layout.Utt2Spk, processed.Utt2Spk(sp.Split), kaldi.RenderUtt2Spk(sp.Manifest)},
			{layout.Spk2Gender, processed.Spk2Gender(sp.Split), sp.Genders},
		}
		for _, a := range artifacts {
			if err := c.fs.WriteFile(a.path, a.data); err != nil {
				return corpus.Wrap(corpus.ErrFilesystem, sp.Split, "write "+a.name, a.path, err)
			}
		}
		c.logger.Info("split tables written",
			logging.String(logging.FieldSplit, sp.Split),
			logging.String(logging.FieldPath, processed.DataSplit(sp.Split)),
		)
	}

	if c.opts.CorpusText {
		path := processed.CorpusText()
		if err := c.fs.WriteFile(path, kaldi.RenderCorpus(plan.Manifests())); err != nil {
			return corpus.Wrap(corpus.ErrFilesystem, "", "write "+layout.CorpusFile, path, err)
		}
		c.logger.Info("corpus text written", logging.String(logging.FieldPath, path))
	}
	return nil
}
