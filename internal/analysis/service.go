package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/storage/object"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/telemetry"
)

// Service records completed analysis runs and keeps a raw backup of the
// provider output in the object store.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Now   func() time.Time
}

// RecordInput captures one finished provider call.
type RecordInput struct {
	UserID     string
	SourceType string
	SourceID   string
	SourceText string
	Raw        json.RawMessage
	Result     json.RawMessage
	Provider   string
	Model      string
}

// Record persists the analysis row. The raw backup write happens first and is
// best-effort: a backup failure is logged and never blocks the primary write.
func (s *Service) Record(ctx context.Context, input RecordInput) (Record, error) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	rec := Record{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		SourceType: input.SourceType,
		SourceID:   input.SourceID,
		SourceText: input.SourceText,
		Raw:        input.Raw,
		Result:     input.Result,
		Provider:   input.Provider,
		Model:      input.Model,
		CreatedAt:  now,
	}

	s.backupRaw(ctx, rec)

	if err := s.Repo.Create(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("create analysis record: %w", err)
	}
	return rec, nil
}

// GetByID fetches one analysis record for a user.
func (s *Service) GetByID(ctx context.Context, userID, analysisID string) (Record, error) {
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// ListBySource lists analysis history for a job or resume, newest first.
func (s *Service) ListBySource(ctx context.Context, userID, sourceType, sourceID string, limit int) ([]Record, error) {
	return s.Repo.ListBySource(ctx, userID, sourceType, sourceID, limit)
}

func (s *Service) backupRaw(ctx context.Context, rec Record) {
	if s.Store == nil || len(rec.Raw) == 0 {
		return
	}
	key := fmt.Sprintf("%s/raw/%s.json", rec.SourceType, rec.ID)
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(rec.Raw)); err != nil {
		telemetry.Error("analysis.raw_backup.failed", map[string]any{
			"analysisId": rec.ID,
			"sourceType": rec.SourceType,
			"sourceId":   rec.SourceID,
			"error":      err.Error(),
		})
	}
}
