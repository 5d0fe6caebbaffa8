package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const resumeColumns = `id, user_id, resume_name, storage_key, file_type, original_filename, size_bytes, mime_type, version, is_primary, parsed_content, status, uploaded_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    resume_name,
    storage_key,
    file_type,
    original_filename,
    size_bytes,
    mime_type,
    version,
    is_primary,
    parsed_content,
    status,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	var parsed any
	if len(resume.ParsedContent) > 0 {
		parsed = []byte(resume.ParsedContent)
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.ResumeName,
		resume.StorageKey,
		resume.FileType,
		nullString(resume.OriginalFilename),
		resume.SizeBytes,
		nullString(resume.MimeType),
		resume.Version,
		resume.IsPrimary,
		parsed,
		resume.Status,
		resume.UploadedAt,
	)
	return err
}

// GetByID fetches a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM resumes
WHERE user_id = $1 AND id = $2
LIMIT 1`, resumeColumns)
	row := r.DB.QueryRowContext(ctx, query, userID, resumeID)
	resume, err := scanResume(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// ListByUser lists resumes newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`
SELECT %s
FROM resumes
WHERE user_id = $1
ORDER BY uploaded_at DESC
LIMIT $2 OFFSET $3`, resumeColumns)

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// SetPrimary marks one resume primary and clears the others transactionally.
func (r *PGRepo) SetPrimary(ctx context.Context, userID, resumeID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
UPDATE resumes SET is_primary = TRUE WHERE user_id = $1 AND id = $2`, userID, resumeID)
	if err != nil {
		return err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return err
	}
	if n == 0 {
		err = ErrNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx, `
UPDATE resumes SET is_primary = FALSE WHERE user_id = $1 AND id <> $2 AND is_primary = TRUE`, userID, resumeID); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a resume record.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `
DELETE FROM resumes WHERE user_id = $1 AND id = $2`, userID, resumeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUser counts resumes a user owns.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanResume(scan func(dest ...any) error) (Resume, error) {
	var resume Resume
	var originalFilename, mimeType sql.NullString
	var parsed []byte
	if err := scan(
		&resume.ID,
		&resume.UserID,
		&resume.ResumeName,
		&resume.StorageKey,
		&resume.FileType,
		&originalFilename,
		&resume.SizeBytes,
		&mimeType,
		&resume.Version,
		&resume.IsPrimary,
		&parsed,
		&resume.Status,
		&resume.UploadedAt,
	); err != nil {
		return Resume{}, err
	}
	if originalFilename.Valid {
		resume.OriginalFilename = originalFilename.String
	}
	if mimeType.Valid {
		resume.MimeType = mimeType.String
	}
	if len(parsed) > 0 {
		resume.ParsedContent = append([]byte(nil), parsed...)
	}
	return resume, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
