package analysis

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO analyses (
    id,
    user_id,
    source_type,
    source_id,
    result,
    raw,
    source_text,
    provider,
    model,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var result any
	if len(rec.Result) > 0 {
		result = []byte(rec.Result)
	}
	var raw any
	if len(rec.Raw) > 0 {
		raw = []byte(rec.Raw)
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.UserID,
		rec.SourceType,
		rec.SourceID,
		result,
		raw,
		nullString(rec.SourceText),
		nullString(rec.Provider),
		nullString(rec.Model),
		rec.CreatedAt,
	)
	return err
}

// GetByID fetches an analysis record by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Record, error) {
	const query = `
SELECT id, user_id, source_type, source_id, result, raw, source_text, provider, model, created_at
FROM analyses
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, analysisID)
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// ListBySource lists analysis records for a source, newest first.
func (r *PGRepo) ListBySource(ctx context.Context, userID, sourceType, sourceID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	const query = `
SELECT id, user_id, source_type, source_id, result, raw, source_text, provider, model, created_at
FROM analyses
WHERE user_id = $1 AND source_type = $2 AND source_id = $3
ORDER BY created_at DESC
LIMIT $4`

	rows, err := r.DB.QueryContext(ctx, query, userID, sourceType, sourceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var result, raw []byte
	var sourceText, provider, model sql.NullString
	if err := scan(
		&rec.ID,
		&rec.UserID,
		&rec.SourceType,
		&rec.SourceID,
		&result,
		&raw,
		&sourceText,
		&provider,
		&model,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	if len(result) > 0 {
		rec.Result = append([]byte(nil), result...)
	}
	if len(raw) > 0 {
		rec.Raw = append([]byte(nil), raw...)
	}
	if sourceText.Valid {
		rec.SourceText = sourceText.String
	}
	if provider.Valid {
		rec.Provider = provider.String
	}
	if model.Valid {
		rec.Model = model.String
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
