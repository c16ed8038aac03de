package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/standort-labs/standort-cli/internal/batch"
)

// pgxPool is the subset of pgxpool.Pool the store uses. Mock pools
// implement the same surface.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool pgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	processed    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	duration_ms  BIGINT NOT NULL DEFAULT 0,
	report_path  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS company_scores (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	company        TEXT NOT NULL,
	location       TEXT NOT NULL,
	location_score DOUBLE PRECISION NOT NULL,
	company_score  DOUBLE PRECISION NOT NULL,
	overall_score  DOUBLE PRECISION NOT NULL,
	metrics        JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_company_scores_run_id ON company_scores(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES ($1, $2, $3)`,
		runID, StatusRunning, startedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: insert run %s", runID)
}

func (s *PostgresStore) CompleteRun(ctx context.Context, run *batch.RunResult, reportPath string) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, completed_at = $2, processed = $3, failed = $4, duration_ms = $5, report_path = $6
		 WHERE id = $7`,
		StatusComplete, now, run.Processed(), run.Failed(), run.Duration.Milliseconds(), reportPath, run.RunID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", run.RunID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", run.RunID)
	}

	for _, sr := range run.Results {
		metrics, err := marshalMetrics(sr)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO company_scores (id, run_id, company, location, location_score, company_score, overall_score, metrics)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), run.RunID, sr.Company.Name, sr.Location.Name,
			sr.LocationScore, sr.CompanyScore, sr.OverallScore, metrics,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert score for %s", sr.Company.Name)
		}
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, status, started_at, completed_at, processed, failed, duration_ms, report_path
		 FROM runs WHERE id = $1`,
		runID,
	)
	return scanPgRun(row)
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, started_at, completed_at, processed, failed, duration_ms, report_path
		 FROM runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) ListScores(ctx context.Context, runID string) ([]CompanyScore, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, company, location, location_score, company_score, overall_score, metrics
		 FROM company_scores WHERE run_id = $1 ORDER BY overall_score DESC, company`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list scores for %s", runID)
	}
	defer rows.Close()

	var scores []CompanyScore
	for rows.Next() {
		var cs CompanyScore
		if err := rows.Scan(&cs.RunID, &cs.Company, &cs.Location,
			&cs.LocationScore, &cs.CompanyScore, &cs.OverallScore, &cs.Metrics); err != nil {
			return nil, eris.Wrap(err, "postgres: scan score")
		}
		scores = append(scores, cs)
	}
	return scores, eris.Wrap(rows.Err(), "postgres: list scores iterate")
}

func scanPgRun(row pgx.Row) (*Run, error) {
	var r Run
	var completed *time.Time
	err := row.Scan(&r.ID, &r.Status, &r.StartedAt, &completed,
		&r.Processed, &r.Failed, &r.DurationMS, &r.ReportPath)
	if err == pgx.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan run")
	}
	r.CompletedAt = completed
	return &r, nil
}
