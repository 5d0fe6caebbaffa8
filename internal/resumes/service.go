package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/analysis"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/extract"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/llm"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/metrics"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/storage/object"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/telemetry"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/util"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/usage"
)

const (
	previewExpiry  = 2 * time.Hour
	downloadExpiry = time.Hour
)

// Service contains business logic for resumes.
type Service struct {
	Repo      Repo
	Store     object.ObjectStore
	Presigner object.Presigner
	LLM       llm.Client
	Analyses  *analysis.Service
	Usage     *usage.Service
	Now       func() time.Time
}

// UploadResult is a stored resume plus the outcome of its blocking analysis.
type UploadResult struct {
	Resume         Resume
	AnalysisStatus string
}

// Upload validates the file entirely before any external call, saves the
// blob, then extracts and analyzes the text. An extraction or analysis
// failure never fails the upload: the resume is saved without parsed content
// and the result reports analysisStatus "failed".
func (s *Service) Upload(ctx context.Context, userID, resumeName, fileName string, r io.Reader) (UploadResult, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return UploadResult{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	fileType := util.FileExtension(fileName)
	if !AllowedFileTypes[fileType] {
		metrics.IncResumeUploadRejected()
		return UploadResult{}, fmt.Errorf("%w: %q (allowed: pdf, docx, doc, txt)", ErrBadFileType, fileType)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		metrics.IncResumeUploadRejected()
		return UploadResult{}, ErrFileTooLarge
	}
	if len(data) == 0 {
		metrics.IncResumeUploadRejected()
		return UploadResult{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("save upload: %w", err)
	}
	metrics.IncResumeUpload()

	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return UploadResult{}, fmt.Errorf("count resumes: %w", err)
	}

	resumeName = strings.TrimSpace(resumeName)
	if resumeName == "" {
		resumeName = strings.TrimSuffix(fileName, "."+fileType)
	}

	resume := Resume{
		ID:               uuid.NewString(),
		UserID:           userID,
		ResumeName:       resumeName,
		StorageKey:       storageKey,
		FileType:         fileType,
		OriginalFilename: fileName,
		SizeBytes:        size,
		MimeType:         mimeType,
		Version:          1,
		IsPrimary:        count == 0, // first resume becomes primary
		Status:           StatusActive,
		UploadedAt:       s.now(),
	}

	// Uploads are never rejected for quota; an exhausted quota only skips
	// the provider call and reports the analysis as failed.
	analysisStatus := AnalysisFailed
	if s.canAnalyze(ctx, userID) {
		analysisStatus = s.analyzeInto(ctx, &resume, data)
	}

	if err := s.Repo.Create(ctx, resume); err != nil {
		return UploadResult{}, fmt.Errorf("create resume: %w", err)
	}

	if analysisStatus == AnalysisCompleted {
		s.consumeQuota(ctx, userID)
	}
	return UploadResult{Resume: resume, AnalysisStatus: analysisStatus}, nil
}

// Get returns a resume by ID.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// SetPrimary makes one resume primary; every other resume the user owns loses
// the flag. Racing requests settle on the last write.
func (s *Service) SetPrimary(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := s.Repo.SetPrimary(ctx, userID, resumeID); err != nil {
		return Resume{}, err
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// Delete removes the blob and then the record. A blob-delete failure is
// logged; the record is removed regardless.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	resume, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, resume.StorageKey); err != nil {
		telemetry.Error("resume.blob_delete.failed", map[string]any{
			"resumeId": resumeID,
			"error":    err.Error(),
		})
	}
	return s.Repo.Delete(ctx, userID, resumeID)
}

// PreviewURL issues a short-lived inline URL for a resume file.
func (s *Service) PreviewURL(ctx context.Context, userID, resumeID string) (string, error) {
	resume, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return "", err
	}
	return s.Presigner.PresignGet(ctx, resume.StorageKey, previewExpiry, "")
}

// DownloadURL issues a short-lived attachment URL for a resume file.
func (s *Service) DownloadURL(ctx context.Context, userID, resumeID string) (string, error) {
	resume, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return "", err
	}
	return s.Presigner.PresignGet(ctx, resume.StorageKey, downloadExpiry, resume.OriginalFilename)
}

// analyzeInto extracts text and runs the blocking resume analysis, filling
// ParsedContent on success. Returns AnalysisCompleted or AnalysisFailed.
func (s *Service) analyzeInto(ctx context.Context, resume *Resume, data []byte) string {
	if s.LLM == nil {
		return AnalysisFailed
	}

	text, err := extract.FromBytes(ctx, data, resume.FileType)
	if err != nil || strings.TrimSpace(text) == "" {
		metrics.IncResumeAnalysisFailed()
		telemetry.Error("resume.extract.failed", map[string]any{
			"resumeId": resume.ID,
			"fileType": resume.FileType,
			"error":    errString(err),
		})
		return AnalysisFailed
	}

	raw, err := s.LLM.AnalyzeResume(ctx, text)
	if err != nil {
		metrics.IncResumeAnalysisFailed()
		telemetry.Error("resume.analysis.failed", map[string]any{
			"resumeId": resume.ID,
			"error":    err.Error(),
		})
		return AnalysisFailed
	}

	profile, err := analysis.NormalizeResumeProfile(raw)
	if err != nil {
		metrics.IncResumeAnalysisFailed()
		telemetry.Error("resume.analysis.malformed", map[string]any{
			"resumeId": resume.ID,
			"error":    err.Error(),
		})
		return AnalysisFailed
	}

	normalized, err := json.Marshal(profile)
	if err != nil {
		metrics.IncResumeAnalysisFailed()
		return AnalysisFailed
	}
	resume.ParsedContent = normalized
	metrics.IncResumeAnalysisCompleted()

	if s.Analyses != nil {
		if _, err := s.Analyses.Record(ctx, analysis.RecordInput{
			UserID:     resume.UserID,
			SourceType: analysis.SourceTypeResume,
			SourceID:   resume.ID,
			SourceText: text,
			Raw:        raw,
			Result:     normalized,
			Provider:   s.LLM.Provider(),
			Model:      s.LLM.Model(),
		}); err != nil {
			telemetry.Error("resume.analysis.record_failed", map[string]any{
				"resumeId": resume.ID,
				"error":    err.Error(),
			})
		}
	}
	return AnalysisCompleted
}

func (s *Service) canAnalyze(ctx context.Context, userID string) bool {
	if s.Usage == nil {
		return true
	}
	ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
	if err != nil {
		telemetry.Error("resume.quota.check_failed", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})
		return false
	}
	return ok
}

func (s *Service) consumeQuota(ctx context.Context, userID string) {
	if s.Usage == nil {
		return
	}
	if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
		telemetry.Error("resume.quota.consume_failed", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func errString(err error) string {
	if err == nil {
		return "empty text"
	}
	return err.Error()
}
