package analysis

import "context"

// Repo defines persistence operations for analysis records.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, userID, analysisID string) (Record, error)
	ListBySource(ctx context.Context, userID, sourceType, sourceID string, limit int) ([]Record, error)
}
