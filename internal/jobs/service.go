package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/analysis"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/llm"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/metrics"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/telemetry"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/usage"
)

const maxDescriptionChars = 50_000

// Service contains business logic for jobs.
type Service struct {
	Repo     Repo
	LLM      llm.Client
	Analyses *analysis.Service
	Usage    *usage.Service
	Now      func() time.Time
}

// CreateInput is a caller-supplied job. Only the description is required;
// caller-provided fields win over extracted ones.
type CreateInput struct {
	JobTitle       string
	CompanyName    string
	JobDescription string
	JobURL         string
	Priority       string
	Notes          string
}

// CreateResult is a job plus the outcome of its blocking analysis call.
type CreateResult struct {
	Job            Job
	AnalysisStatus string
}

// Create validates the input, runs the blocking extraction call, and persists
// the job. An extraction failure never fails the create: the job is saved with
// status "new" and the result reports analysisStatus "failed".
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (CreateResult, error) {
	desc := strings.TrimSpace(input.JobDescription)
	if desc == "" {
		return CreateResult{}, fmt.Errorf("%w: jobDescription is required", ErrInvalidInput)
	}
	if len(desc) > maxDescriptionChars {
		return CreateResult{}, fmt.Errorf("%w: jobDescription exceeds %d characters", ErrInvalidInput, maxDescriptionChars)
	}
	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return CreateResult{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, input.Priority)
	}

	if err := s.checkQuota(ctx, userID); err != nil {
		return CreateResult{}, err
	}

	now := s.now()
	job := Job{
		ID:                uuid.NewString(),
		UserID:            userID,
		JobTitle:          strings.TrimSpace(input.JobTitle),
		CompanyName:       strings.TrimSpace(input.CompanyName),
		JobDescription:    desc,
		JobURL:            strings.TrimSpace(input.JobURL),
		ApplicationStatus: ApplicationNotApplied,
		Keywords:          []string{},
		Priority:          priority,
		Notes:             strings.TrimSpace(input.Notes),
		Status:            StatusNew,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	analysisStatus := s.analyzeInto(ctx, &job, desc)

	if job.JobTitle == "" {
		job.JobTitle = "Untitled Job"
	}

	if err := s.Repo.Create(ctx, job); err != nil {
		return CreateResult{}, fmt.Errorf("create job: %w", err)
	}

	if analysisStatus == AnalysisCompleted {
		s.consumeQuota(ctx, userID)
	}
	return CreateResult{Job: job, AnalysisStatus: analysisStatus}, nil
}

// ReAnalyze re-runs extraction on an existing job. A new analysis record
// supersedes the old one; the job's analysis column is overwritten on success
// and left untouched on failure.
func (s *Service) ReAnalyze(ctx context.Context, userID, jobID string) (CreateResult, error) {
	job, err := s.Repo.GetByID(ctx, userID, jobID)
	if err != nil {
		return CreateResult{}, err
	}

	if err := s.checkQuota(ctx, userID); err != nil {
		return CreateResult{}, err
	}

	updated := job
	analysisStatus := s.analyzeInto(ctx, &updated, job.JobDescription)
	if analysisStatus != AnalysisCompleted {
		return CreateResult{Job: job, AnalysisStatus: analysisStatus}, nil
	}

	updated.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, updated); err != nil {
		return CreateResult{}, fmt.Errorf("update job: %w", err)
	}
	s.consumeQuota(ctx, userID)
	return CreateResult{Job: updated, AnalysisStatus: analysisStatus}, nil
}

// Get returns a non-deleted job.
func (s *Service) Get(ctx context.Context, userID, jobID string) (Job, error) {
	return s.Repo.GetByID(ctx, userID, jobID)
}

// List returns the user's jobs, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int, includeDeleted bool) ([]Job, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset, includeDeleted)
}

// Delete soft-deletes a job.
func (s *Service) Delete(ctx context.Context, userID, jobID string) error {
	return s.Repo.SoftDelete(ctx, userID, jobID, s.now())
}

// DeleteMany soft-deletes several jobs, returning how many changed.
func (s *Service) DeleteMany(ctx context.Context, userID string, jobIDs []string) (int, error) {
	if len(jobIDs) == 0 {
		return 0, fmt.Errorf("%w: jobIds is required", ErrInvalidInput)
	}
	return s.Repo.SoftDeleteMany(ctx, userID, jobIDs, s.now())
}

// Restore brings back a soft-deleted job with its prior analysis intact.
func (s *Service) Restore(ctx context.Context, userID, jobID string) (Job, error) {
	if err := s.Repo.Restore(ctx, userID, jobID, s.now()); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, userID, jobID)
}

// UpdateApplicationStatus moves a job through the application pipeline.
func (s *Service) UpdateApplicationStatus(ctx context.Context, userID, jobID, status string) (Job, error) {
	if !ValidApplicationStatus(status) {
		return Job{}, fmt.Errorf("%w: unknown application status %q", ErrInvalidInput, status)
	}
	if err := s.Repo.UpdateApplicationStatus(ctx, userID, jobID, status, s.now()); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, userID, jobID)
}

// Counts aggregates dashboard counts for a user.
func (s *Service) Counts(ctx context.Context, userID string) (CountSummary, error) {
	return s.Repo.CountByUser(ctx, userID)
}

// analyzeInto runs the blocking extraction call and merges the normalized
// posting into the job. Caller-provided title/company win over extracted
// values. Returns AnalysisCompleted or AnalysisFailed.
func (s *Service) analyzeInto(ctx context.Context, job *Job, desc string) string {
	if s.LLM == nil {
		return AnalysisFailed
	}

	raw, err := s.LLM.AnalyzeJobDescription(ctx, desc)
	if err != nil {
		metrics.IncJobAnalysisFailed()
		telemetry.Error("job.analysis.failed", map[string]any{
			"jobId": job.ID,
			"error": err.Error(),
		})
		return AnalysisFailed
	}

	posting, err := analysis.NormalizeJobPosting(raw)
	if err != nil {
		metrics.IncJobAnalysisFailed()
		telemetry.Error("job.analysis.malformed", map[string]any{
			"jobId": job.ID,
			"error": err.Error(),
		})
		return AnalysisFailed
	}

	if job.JobTitle == "" {
		job.JobTitle = posting.JobTitle
	}
	if job.CompanyName == "" {
		job.CompanyName = posting.CompanyName
	}
	if job.Location == "" {
		job.Location = posting.LocationDetails
	}
	if job.WorkType == "" {
		job.WorkType = posting.WorkLocation
	}
	if job.EmploymentType == "" {
		job.EmploymentType = posting.EmploymentType
	}
	if job.SalaryRange == "" {
		job.SalaryRange = posting.SalaryRange
	}

	normalized, err := json.Marshal(posting)
	if err != nil {
		metrics.IncJobAnalysisFailed()
		telemetry.Error("job.analysis.encode_failed", map[string]any{
			"jobId": job.ID,
			"error": err.Error(),
		})
		return AnalysisFailed
	}
	job.Analysis = normalized
	job.Keywords = analysis.Keywords(posting)
	job.Status = StatusAnalyzed
	metrics.IncJobAnalysisCompleted()

	if s.Analyses != nil {
		if _, err := s.Analyses.Record(ctx, analysis.RecordInput{
			UserID:     job.UserID,
			SourceType: analysis.SourceTypeJob,
			SourceID:   job.ID,
			SourceText: desc,
			Raw:        raw,
			Result:     normalized,
			Provider:   s.LLM.Provider(),
			Model:      s.LLM.Model(),
		}); err != nil {
			telemetry.Error("job.analysis.record_failed", map[string]any{
				"jobId": job.ID,
				"error": err.Error(),
			})
		}
	}
	return AnalysisCompleted
}

func (s *Service) checkQuota(ctx context.Context, userID string) error {
	if s.Usage == nil {
		return nil
	}
	ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
	if err != nil {
		return fmt.Errorf("check quota: %w", err)
	}
	if !ok {
		return ErrQuotaReached
	}
	return nil
}

func (s *Service) consumeQuota(ctx context.Context, userID string) {
	if s.Usage == nil {
		return
	}
	if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
		telemetry.Error("job.quota.consume_failed", map[string]any{
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
