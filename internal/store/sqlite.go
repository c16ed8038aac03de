package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/standort-labs/standort-cli/internal/batch"
	"github.com/standort-labs/standort-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   DATETIME NOT NULL,
	completed_at DATETIME,
	processed    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	report_path  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS company_scores (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	company        TEXT NOT NULL,
	location       TEXT NOT NULL,
	location_score REAL NOT NULL,
	company_score  REAL NOT NULL,
	overall_score  REAL NOT NULL,
	metrics        TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_company_scores_run_id ON company_scores(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		runID, StatusRunning, startedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", runID)
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, run *batch.RunResult, reportPath string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin complete run")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, processed = ?, failed = ?, duration_ms = ?, report_path = ?
		 WHERE id = ?`,
		StatusComplete, now, run.Processed(), run.Failed(), run.Duration.Milliseconds(), reportPath, run.RunID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", run.RunID)
	}
	if err := checkRowsAffected(res, "run", run.RunID); err != nil {
		return err
	}

	for _, sr := range run.Results {
		metrics, err := marshalMetrics(sr)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO company_scores (id, run_id, company, location, location_score, company_score, overall_score, metrics)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), run.RunID, sr.Company.Name, sr.Location.Name,
			sr.LocationScore, sr.CompanyScore, sr.OverallScore, string(metrics),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert score for %s", sr.Company.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit complete run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, started_at, completed_at, processed, failed, duration_ms, report_path
		 FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, started_at, completed_at, processed, failed, duration_ms, report_path
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) ListScores(ctx context.Context, runID string) ([]CompanyScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, company, location, location_score, company_score, overall_score, metrics
		 FROM company_scores WHERE run_id = ? ORDER BY overall_score DESC, company`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list scores for %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var scores []CompanyScore
	for rows.Next() {
		var cs CompanyScore
		var metrics string
		if err := rows.Scan(&cs.RunID, &cs.Company, &cs.Location,
			&cs.LocationScore, &cs.CompanyScore, &cs.OverallScore, &metrics); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score")
		}
		cs.Metrics = []byte(metrics)
		scores = append(scores, cs)
	}
	return scores, eris.Wrap(rows.Err(), "sqlite: list scores iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var r Run
	var completed sql.NullTime
	err := row.Scan(&r.ID, &r.Status, &r.StartedAt, &completed,
		&r.Processed, &r.Failed, &r.DurationMS, &r.ReportPath)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan run")
	}
	if completed.Valid {
		t := completed.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

// metricsDoc is the JSON shape stored per company score row.
type metricsDoc struct {
	Location []model.MetricScore `json:"location"`
	Company  []model.MetricScore `json:"company"`
}

func marshalMetrics(sr *model.ScoredResult) ([]byte, error) {
	doc := metricsDoc{Location: sr.LocationMetrics, Company: sr.CompanyMetrics}
	out, err := json.Marshal(doc)
	return out, eris.Wrapf(err, "store: marshal metrics for %s", sr.Company.Name)
}
