// Package store persists discovery runs and their leads.
package store

import (
	"context"
	"time"

	"github.com/sells-group/leadscout/internal/model"
)

// RunStatus tracks a discovery run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted discovery run.
type Run struct {
	ID          string                `json:"id"`
	Seed        string                `json:"seed"`
	Profile     model.AudienceProfile `json:"profile"`
	Count       int                   `json:"count"`
	Status      RunStatus             `json:"status"`
	Stats       RunStats              `json:"stats"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// RunStats summarizes what a completed run did.
type RunStats struct {
	QueriesIssued int  `json:"queries_issued"`
	PagesFetched  int  `json:"pages_fetched"`
	UsedFallback  bool `json:"used_fallback"`
	LeadCount     int  `json:"lead_count"`
}

// Store is the persistence surface used by the CLI and the HTTP API.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, seed string, profile model.AudienceProfile, count int) (*Run, error)
	CompleteRun(ctx context.Context, runID string, stats RunStats) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	InsertLeads(ctx context.Context, runID string, leads []model.RankedLead) error
	ListLeads(ctx context.Context, runID string) ([]model.RankedLead, error)
	Close() error
}
