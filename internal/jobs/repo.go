package jobs

import (
	"context"
	"time"
)

// Repo defines persistence operations for jobs. Reads exclude soft-deleted
// rows unless stated otherwise.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, userID, jobID string) (Job, error)
	// GetAny fetches a job regardless of deletion state; restore needs it.
	GetAny(ctx context.Context, userID, jobID string) (Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset int, includeDeleted bool) ([]Job, error)
	Update(ctx context.Context, job Job) error
	SoftDelete(ctx context.Context, userID, jobID string, at time.Time) error
	SoftDeleteMany(ctx context.Context, userID string, jobIDs []string, at time.Time) (int, error)
	Restore(ctx context.Context, userID, jobID string, at time.Time) error
	UpdateApplicationStatus(ctx context.Context, userID, jobID, status string, at time.Time) error
	CountByUser(ctx context.Context, userID string) (CountSummary, error)
}

// CountSummary aggregates job counts for the dashboard.
type CountSummary struct {
	Total        int `json:"total"`
	Applied      int `json:"applied"`
	Interviewing int `json:"interviewing"`
}
