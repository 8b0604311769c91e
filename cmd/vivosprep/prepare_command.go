package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vivosprep/internal/config"
	"vivosprep/internal/convert"
	"vivosprep/internal/history"
	"vivosprep/internal/logging"
	"vivosprep/internal/preflight"
	"vivosprep/internal/runlock"
)

type prepareOptions struct {
	rawDir       string
	processedDir string
	dryRun       bool
	workers      int
	verifyCopies bool
	corpusText   bool
	noProgress   bool
}

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var opts prepareOptions

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Convert a raw corpus into a Kaldi data directory",
		Long: `Copy and rename every split's audio into <processed>/audio/<split>/<speaker>/
and write data/<split>/{text,wav.scp,utt2spk,spk2gender}.

All manifests and audio names are validated before anything is written.
Existing outputs are overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyPrepareFlags(cmd, cfg, opts); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPrepare(runCtx, cmd, cfg, logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rawDir, "raw-dir", "", "Raw corpus root (overrides paths.raw_dir)")
	cmd.Flags().StringVar(&opts.processedDir, "processed-dir", "", "Kaldi recipe root to write (overrides paths.processed_dir)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate inputs and print the plan without writing")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Speakers copied in parallel (overrides output.workers)")
	cmd.Flags().BoolVar(&opts.verifyCopies, "verify-copies", false, "Hash every audio copy against its source")
	cmd.Flags().BoolVar(&opts.corpusText, "corpus-text", false, "Also write data/local/corpus.txt")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func applyPrepareFlags(cmd *cobra.Command, cfg *config.Config, opts prepareOptions) error {
	if err := cfg.SetCorpusDirs(opts.rawDir, opts.processedDir); err != nil {
		return err
	}
	if err := cfg.RequireCorpusDirs(); err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		if opts.workers < 1 {
			return fmt.Errorf("--workers must be at least 1, got %d", opts.workers)
		}
		cfg.Output.Workers = opts.workers
	}
	if opts.verifyCopies {
		cfg.Output.VerifyCopies = true
	}
	if opts.corpusText {
		cfg.Output.CorpusText = true
	}
	return nil
}

func runPrepare(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts prepareOptions) error {
	out := newPrinter(cmd.OutOrStdout())

	lock, err := runlock.Acquire(cfg.LockDir(), cfg.Paths.ProcessedDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.String(logging.FieldPath, lock.Path()), logging.Error(err))
		}
	}()

	var recorder *runRecorder
	if !opts.dryRun {
		recorder = startRunRecorder(ctx, cfg, logger)
		defer recorder.close()
		ctx = logging.WithRunID(ctx, recorder.runID())
	}

	var convertOpts []convert.Option
	if !opts.dryRun && !opts.noProgress && isTerminal(cmd.ErrOrStderr()) {
		convertOpts = append(convertOpts, convert.WithProgress(newCopyProgress(cmd.ErrOrStderr())))
	}
	converter := convert.NewFromConfig(cfg, logger, convertOpts...)

	plan, err := converter.Plan(ctx)
	if err != nil {
		recorder.finish(ctx, nil, err)
		return err
	}

	if opts.dryRun {
		printPlan(out, plan)
		out.status("Dry run", statusInfo, "nothing was written to "+cfg.Paths.ProcessedDir)
		return nil
	}

	results := preflight.RunAll(cfg, plan.AudioBytes())
	if err := preflight.Failed(results); err != nil {
		for _, r := range results {
			out.status(r.Name, passKind(r.Passed), r.Detail)
		}
		recorder.finish(ctx, nil, err)
		return err
	}

	report, err := converter.Apply(ctx, plan)
	recorder.finish(ctx, report, err)
	if err != nil {
		return err
	}

	printReport(out, report)
	out.status("Prepare", statusOK, fmt.Sprintf("%s written in %s", cfg.Paths.ProcessedDir, formatDuration(report.Duration)))
	return nil
}

func printPlan(out *printer, plan *convert.Plan) {
	rows := make([][]string, 0, len(plan.Splits))
	for _, sp := range plan.Splits {
		rows = append(rows, []string{
			sp.Split,
			formatCount(len(sp.Manifest.Utterances)),
			formatCount(len(sp.Manifest.Speakers())),
			formatCount(len(sp.Audio)),
			formatBytes(sp.AudioBytes()),
		})
	}
	footer := []string{"total", "", "", formatCount(plan.AudioFiles()), formatBytes(plan.AudioBytes())}
	out.table(
		[]string{"Split", "Utterances", "Speakers", "Audio files", "Audio size"},
		rows,
		footer,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func printReport(out *printer, report *convert.Report) {
	rows := make([][]string, 0, len(report.Splits))
	for _, s := range report.Splits {
		rows = append(rows, []string{
			s.Split,
			formatCount(s.Utterances),
			formatCount(s.Speakers),
			formatCount(s.AudioFiles),
			formatBytes(s.AudioBytes),
		})
	}
	total := report.Totals()
	out.table(
		[]string{"Split", "Utterances", "Speakers", "Audio files", "Copied"},
		rows,
		[]string{"total", formatCount(total.Utterances), formatCount(total.Speakers), formatCount(total.AudioFiles), formatBytes(total.AudioBytes)},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

// runRecorder writes a run to history without ever failing the run. A nil
// recorder is valid and records nothing.
type runRecorder struct {
	store  *history.Store
	run    *history.Run
	logger *slog.Logger
}

func startRunRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) *runRecorder {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(ctx, cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.driver and history.dsn"),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
		return nil
	}
	run, err := store.Begin(ctx, cfg.Paths.RawDir, cfg.Paths.ProcessedDir)
	if err != nil {
		_ = store.Close()
		logging.WarnWithContext(logger, "failed to record run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
		return nil
	}
	return &runRecorder{store: store, run: run, logger: logger}
}

func (r *runRecorder) runID() string {
	if r == nil {
		return ""
	}
	return r.run.ID
}

func (r *runRecorder) finish(ctx context.Context, report *convert.Report, runErr error) {
	if r == nil {
		return
	}
	var splits []history.SplitStats
	if report != nil {
		for _, s := range report.Splits {
			splits = append(splits, history.SplitStats(s))
		}
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = errors.New("interrupted")
	}
	// The run context may already be cancelled by a signal.
	if err := r.store.Finish(context.WithoutCancel(ctx), r.run, splits, runErr); err != nil {
		logging.WarnWithContext(r.logger, "failed to record run result", "history_write_failed",
			logging.String(logging.FieldRunID, r.run.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "history shows this run as running"),
		)
	}
}

func (r *runRecorder) close() {
	if r == nil {
		return
	}
	_ = r.store.Close()
}
