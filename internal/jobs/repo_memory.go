package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo implements Repo in memory for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewMemoryRepo creates an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

// Create stores a job.
func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

// GetByID fetches a non-deleted job for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok || job.UserID != userID || job.DeletedAt != nil {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// GetAny fetches a job regardless of deletion state.
func (r *MemoryRepo) GetAny(ctx context.Context, userID, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok || job.UserID != userID {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// ListByUser lists jobs newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int, includeDeleted bool) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Job
	for _, job := range r.jobs {
		if job.UserID != userID {
			continue
		}
		if job.DeletedAt != nil && !includeDeleted {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update writes all mutable fields of a non-deleted job.
func (r *MemoryRepo) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok || existing.UserID != job.UserID || existing.DeletedAt != nil {
		return ErrNotFound
	}
	job.CreatedAt = existing.CreatedAt
	job.DeletedAt = existing.DeletedAt
	r.jobs[job.ID] = job
	return nil
}

// SoftDelete marks a job deleted.
func (r *MemoryRepo) SoftDelete(ctx context.Context, userID, jobID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.UserID != userID || job.DeletedAt != nil {
		return ErrNotFound
	}
	t := at
	job.DeletedAt = &t
	job.UpdatedAt = at
	r.jobs[jobID] = job
	return nil
}

// SoftDeleteMany marks several jobs deleted, returning how many changed.
func (r *MemoryRepo) SoftDeleteMany(ctx context.Context, userID string, jobIDs []string, at time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for _, id := range jobIDs {
		job, ok := r.jobs[id]
		if !ok || job.UserID != userID || job.DeletedAt != nil {
			continue
		}
		t := at
		job.DeletedAt = &t
		job.UpdatedAt = at
		r.jobs[id] = job
		deleted++
	}
	return deleted, nil
}

// Restore clears the deletion mark.
func (r *MemoryRepo) Restore(ctx context.Context, userID, jobID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.UserID != userID || job.DeletedAt == nil {
		return ErrNotFound
	}
	job.DeletedAt = nil
	job.UpdatedAt = at
	r.jobs[jobID] = job
	return nil
}

// UpdateApplicationStatus moves a job through the application pipeline.
func (r *MemoryRepo) UpdateApplicationStatus(ctx context.Context, userID, jobID, status string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.UserID != userID || job.DeletedAt != nil {
		return ErrNotFound
	}
	job.ApplicationStatus = status
	job.UpdatedAt = at
	r.jobs[jobID] = job
	return nil
}

// CountByUser aggregates dashboard counts over non-deleted jobs.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (CountSummary, error) {
	if err := ctx.Err(); err != nil {
		return CountSummary{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var summary CountSummary
	for _, job := range r.jobs {
		if job.UserID != userID || job.DeletedAt != nil {
			continue
		}
		summary.Total++
		switch job.ApplicationStatus {
		case ApplicationApplied:
			summary.Applied++
		case ApplicationInterviewing:
			summary.Interviewing++
		}
	}
	return summary, nil
}

var _ Repo = (*MemoryRepo)(nil)
