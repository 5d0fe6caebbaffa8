package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	// SetPrimary marks one resume primary and clears the flag on every other
	// resume the user owns, in a single transaction.
	SetPrimary(ctx context.Context, userID, resumeID string) error
	Delete(ctx context.Context, userID, resumeID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
