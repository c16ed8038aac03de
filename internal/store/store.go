// Package store persists scoring run history: one row per run plus the
// per-company score rows. Two drivers exist, sqlite for local use and
// postgres for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/standort-labs/standort-cli/internal/batch"
)

// Run statuses.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
)

// Run is one persisted scoring run.
type Run struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Processed   int        `json:"processed"`
	Failed      int        `json:"failed"`
	DurationMS  int64      `json:"duration_ms"`
	ReportPath  string     `json:"report_path,omitempty"`
}

// CompanyScore is one persisted per-company result row. Metrics holds the
// full scored metric breakdown as JSON.
type CompanyScore struct {
	RunID         string  `json:"run_id"`
	Company       string  `json:"company"`
	Location      string  `json:"location"`
	LocationScore float64 `json:"location_score"`
	CompanyScore  float64 `json:"company_score"`
	OverallScore  float64 `json:"overall_score"`
	Metrics       []byte  `json:"metrics,omitempty"`
}

// Store is the persistence interface for run history.
type Store interface {
	// CreateRun inserts a run in the running state.
	CreateRun(ctx context.Context, runID string, startedAt time.Time) error

	// CompleteRun marks the run complete and inserts its company score
	// rows.
	CompleteRun(ctx context.Context, run *batch.RunResult, reportPath string) error

	// GetRun fetches one run by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// ListScores returns the company score rows of a run, best first.
	ListScores(ctx context.Context, runID string) ([]CompanyScore, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
