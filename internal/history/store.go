package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vivosprep/internal/config"
)

// timeLayout is fixed width so stored timestamps sort chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Store persists run history.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to the history database described by cfg and applies migrations.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if !cfg.History.Enabled {
		return nil, errors.New("run history is disabled")
	}
	return OpenDriver(ctx, cfg.History.Driver, cfg.HistoryDSN())
}

// OpenDriver connects using an explicit driver ("sqlite" or "mysql") and DSN.
func OpenDriver(ctx context.Context, driver, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("history %s: empty dsn", driver)
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.HistoryDriverSQLite:
		db, err = openSQLite(dsn)
	case config.HistoryDriverMySQL:
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			db.SetConnMaxLifetime(3 * time.Minute)
		}
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s history: %w", driver, err)
	}

	store := &Store{db: db, driver: driver, now: time.Now}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver reports the backend in use.
func (s *Store) Driver() string { return s.driver }

// Begin records a new running run.
func (s *Store) Begin(ctx context.Context, rawDir, processedDir string) (*Run, error) {
	run := &Run{
		ID:           uuid.NewString(),
		RawDir:       rawDir,
		ProcessedDir: processedDir,
		Status:       StatusRunning,
		StartedAt:    s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, raw_dir, processed_dir, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.RawDir, run.ProcessedDir, string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish marks run succeeded (runErr nil) or failed and stores split stats.
func (s *Store) Finish(ctx context.Context, run *Run, splits []SplitStats, runErr error) error {
	if run == nil {
		return errors.New("finish: nil run")
	}
	run.FinishedAt = s.now().UTC()
	run.Duration = run.FinishedAt.Sub(run.StartedAt)
	run.Status = StatusSucceeded
	run.Error = ""
	if runErr != nil {
		run.Status = StatusFailed
		run.Error = runErr.Error()
	}
	run.Splits = append([]SplitStats(nil), splits...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finish tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ?, duration_ms = ? WHERE id = ?`,
		string(run.Status), nullableString(run.Error), formatTime(run.FinishedAt), run.Duration.Milliseconds(), run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run: run %s not found", run.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_splits WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clear run splits: %w", err)
	}
	for i, split := range run.Splits {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_splits (run_id, position, split_name, utterances, speakers, audio_files, audio_bytes)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, split.Split, split.Utterances, split.Speakers, split.AudioFiles, split.AudioBytes,
		); err != nil {
			return fmt.Errorf("insert run split %s: %w", split.Split, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finish: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit below 1 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, raw_dir, processed_dir, status, error_message, started_at, finished_at, duration_ms
              FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		splits, err := s.loadSplits(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Splits = splits
	}
	return runs, nil
}

// Get returns one run by ID, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, raw_dir, processed_dir, status, error_message, started_at, finished_at, duration_ms
         FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run.Splits, err = s.loadSplits(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) loadSplits(ctx context.Context, runID string) ([]SplitStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT split_name, utterances, speakers, audio_files, audio_bytes
         FROM run_splits WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run splits: %w", err)
	}
	defer rows.Close()

	var splits []SplitStats
	for rows.Next() {
		var st SplitStats
		if err := rows.Scan(&st.Split, &st.Utterances, &st.Speakers, &st.AudioFiles, &st.AudioBytes); err != nil {
			return nil, fmt.Errorf("scan run split: %w", err)
		}
		splits = append(splits, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run splits: %w", err)
	}
	return splits, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		errMessage  sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
		durationMS  int64
	)
	if err := scanner.Scan(&run.ID, &run.RawDir, &run.ProcessedDir, &status, &errMessage, &startedRaw, &finishedRaw, &durationMS); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.Error = errMessage.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
