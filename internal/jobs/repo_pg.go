package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const jobColumns = `id, user_id, job_title, company_name, job_description, job_url, location, work_type, employment_type, salary_range, application_status, analysis, keywords, priority, notes, status, deleted_at, created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (
    id,
    user_id,
    job_title,
    company_name,
    job_description,
    job_url,
    location,
    work_type,
    employment_type,
    salary_range,
    application_status,
    analysis,
    keywords,
    priority,
    notes,
    status,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	analysisJSON, keywordsJSON, err := encodeAnalysis(job)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		job.ID,
		job.UserID,
		job.JobTitle,
		nullString(job.CompanyName),
		job.JobDescription,
		nullString(job.JobURL),
		nullString(job.Location),
		nullString(job.WorkType),
		nullString(job.EmploymentType),
		nullString(job.SalaryRange),
		job.ApplicationStatus,
		analysisJSON,
		keywordsJSON,
		job.Priority,
		nullString(job.Notes),
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID fetches a non-deleted job for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, jobID string) (Job, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM jobs
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`, jobColumns)
	row := r.DB.QueryRowContext(ctx, query, userID, jobID)
	job, err := scanJob(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// GetAny fetches a job regardless of deletion state.
func (r *PGRepo) GetAny(ctx context.Context, userID, jobID string) (Job, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM jobs
WHERE user_id = $1 AND id = $2
LIMIT 1`, jobColumns)
	row := r.DB.QueryRowContext(ctx, query, userID, jobID)
	job, err := scanJob(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// ListByUser lists jobs ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int, includeDeleted bool) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	deletedClause := "AND deleted_at IS NULL"
	if includeDeleted {
		deletedClause = ""
	}
	query := fmt.Sprintf(`
SELECT %s
FROM jobs
WHERE user_id = $1 %s
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, jobColumns, deletedClause)

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Update writes all mutable job columns.
func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs
SET job_title = $1,
    company_name = $2,
    job_url = $3,
    location = $4,
    work_type = $5,
    employment_type = $6,
    salary_range = $7,
    application_status = $8,
    analysis = $9,
    keywords = $10,
    priority = $11,
    notes = $12,
    status = $13,
    updated_at = $14
WHERE user_id = $15 AND id = $16 AND deleted_at IS NULL`

	analysisJSON, keywordsJSON, err := encodeAnalysis(job)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		job.JobTitle,
		nullString(job.CompanyName),
		nullString(job.JobURL),
		nullString(job.Location),
		nullString(job.WorkType),
		nullString(job.EmploymentType),
		nullString(job.SalaryRange),
		job.ApplicationStatus,
		analysisJSON,
		keywordsJSON,
		job.Priority,
		nullString(job.Notes),
		job.Status,
		job.UpdatedAt,
		job.UserID,
		job.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SoftDelete marks a job deleted.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, jobID string, at time.Time) error {
	const query = `
UPDATE jobs
SET deleted_at = $1, updated_at = $1
WHERE user_id = $2 AND id = $3 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, at, userID, jobID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SoftDeleteMany marks several jobs deleted, returning how many changed.
func (r *PGRepo) SoftDeleteMany(ctx context.Context, userID string, jobIDs []string, at time.Time) (int, error) {
	if len(jobIDs) == 0 {
		return 0, nil
	}
	placeholders := make([]string, 0, len(jobIDs))
	args := []any{at, userID}
	for i, id := range jobIDs {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, id)
	}
	query := fmt.Sprintf(`
UPDATE jobs
SET deleted_at = $1, updated_at = $1
WHERE user_id = $2 AND id IN (%s) AND deleted_at IS NULL`, strings.Join(placeholders, ", "))
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Restore clears the deletion mark. The prior analysis column is untouched.
func (r *PGRepo) Restore(ctx context.Context, userID, jobID string, at time.Time) error {
	const query = `
UPDATE jobs
SET deleted_at = NULL, updated_at = $1
WHERE user_id = $2 AND id = $3 AND deleted_at IS NOT NULL`
	res, err := r.DB.ExecContext(ctx, query, at, userID, jobID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateApplicationStatus moves a job through the application pipeline.
func (r *PGRepo) UpdateApplicationStatus(ctx context.Context, userID, jobID, status string, at time.Time) error {
	const query = `
UPDATE jobs
SET application_status = $1, updated_at = $2
WHERE user_id = $3 AND id = $4 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, status, at, userID, jobID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountByUser aggregates dashboard counts over non-deleted jobs.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (CountSummary, error) {
	const query = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE application_status = 'applied'),
    COUNT(*) FILTER (WHERE application_status = 'interviewing')
FROM jobs
WHERE user_id = $1 AND deleted_at IS NULL`
	var summary CountSummary
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&summary.Total, &summary.Applied, &summary.Interviewing)
	if err != nil {
		return CountSummary{}, err
	}
	return summary, nil
}

func scanJob(scan func(dest ...any) error) (Job, error) {
	var job Job
	var companyName, jobURL, location, workType, employmentType, salaryRange, notes sql.NullString
	var analysisJSON, keywordsJSON []byte
	var deletedAt sql.NullTime
	if err := scan(
		&job.ID,
		&job.UserID,
		&job.JobTitle,
		&companyName,
		&job.JobDescription,
		&jobURL,
		&location,
		&workType,
		&employmentType,
		&salaryRange,
		&job.ApplicationStatus,
		&analysisJSON,
		&keywordsJSON,
		&job.Priority,
		&notes,
		&job.Status,
		&deletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return Job{}, err
	}
	if companyName.Valid {
		job.CompanyName = companyName.String
	}
	if jobURL.Valid {
		job.JobURL = jobURL.String
	}
	if location.Valid {
		job.Location = location.String
	}
	if workType.Valid {
		job.WorkType = workType.String
	}
	if employmentType.Valid {
		job.EmploymentType = employmentType.String
	}
	if salaryRange.Valid {
		job.SalaryRange = salaryRange.String
	}
	if notes.Valid {
		job.Notes = notes.String
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		job.DeletedAt = &t
	}
	if len(analysisJSON) > 0 {
		job.Analysis = append([]byte(nil), analysisJSON...)
	}
	job.Keywords = []string{}
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &job.Keywords); err != nil {
			return Job{}, fmt.Errorf("decode keywords: %w", err)
		}
	}
	return job, nil
}

func encodeAnalysis(job Job) (any, []byte, error) {
	var analysisJSON any
	if len(job.Analysis) > 0 {
		analysisJSON = []byte(job.Analysis)
	}
	keywords := job.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, nil, fmt.Errorf("encode keywords: %w", err)
	}
	return analysisJSON, keywordsJSON, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
