package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs("run-1", StatusRunning, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.CreateRun(context.Background(), "run-1", time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := finishedRun("run-1")

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs(StatusComplete, pgxmock.AnyArg(), 2, 1, int64(1500), "/tmp/report.xlsx", "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO company_scores`).
		WithArgs(pgxmock.AnyArg(), "run-1", "Acme AG", "Zurich", 3.6, 4.4, 4.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO company_scores`).
		WithArgs(pgxmock.AnyArg(), "run-1", "Beta GmbH", "Zurich", 3.6, 2.4, 3.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.CompleteRun(context.Background(), run, "/tmp/report.xlsx")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteUnknownRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs(StatusComplete, pgxmock.AnyArg(), 2, 1, int64(1500), "", "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), finishedRun("ghost"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRunNotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, status, started_at`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	started := time.Now().UTC()
	completed := started.Add(time.Second)
	rows := pgxmock.NewRows([]string{
		"id", "status", "started_at", "completed_at",
		"processed", "failed", "duration_ms", "report_path",
	}).
		AddRow("run-2", StatusComplete, started, &completed, 3, 0, int64(900), "out.xlsx").
		AddRow("run-1", StatusRunning, started.Add(-time.Hour), (*time.Time)(nil), 0, 0, int64(0), "")

	mock.ExpectQuery(`SELECT id, status, started_at`).
		WithArgs(50).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	require.NotNil(t, runs[0].CompletedAt)
	assert.Nil(t, runs[1].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListScores(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"run_id", "company", "location",
		"location_score", "company_score", "overall_score", "metrics",
	}).
		AddRow("run-1", "Acme AG", "Zurich", 3.6, 4.4, 4.0, []byte(`{}`))

	mock.ExpectQuery(`SELECT run_id, company, location`).
		WithArgs("run-1").
		WillReturnRows(rows)

	scores, err := s.ListScores(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "Acme AG", scores[0].Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}
