package jobs

import (
	"encoding/json"
	"time"
)

const (
	// Lifecycle status of the analysis pipeline for a job.
	StatusNew      = "new"
	StatusAnalyzed = "analyzed"

	// Application tracking statuses.
	ApplicationNotApplied   = "not_applied"
	ApplicationApplied      = "applied"
	ApplicationInterviewing = "interviewing"
	ApplicationRejected     = "rejected"
	ApplicationOffered      = "offered"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	// AnalysisCompleted and AnalysisFailed report the outcome of the
	// blocking extraction call on create and re-analyze responses.
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

// Job is a tracked job application with its extracted posting fields.
type Job struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	JobTitle          string          `json:"jobTitle"`
	CompanyName       string          `json:"companyName,omitempty"`
	JobDescription    string          `json:"jobDescription"`
	JobURL            string          `json:"jobUrl,omitempty"`
	Location          string          `json:"location,omitempty"`
	WorkType          string          `json:"workType,omitempty"`
	EmploymentType    string          `json:"employmentType,omitempty"`
	SalaryRange       string          `json:"salaryRange,omitempty"`
	ApplicationStatus string          `json:"applicationStatus"`
	Analysis          json.RawMessage `json:"analysis,omitempty"`
	Keywords          []string        `json:"keywords"`
	Priority          string          `json:"priority"`
	Notes             string          `json:"notes,omitempty"`
	Status            string          `json:"status"`
	DeletedAt         *time.Time      `json:"deletedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationNotApplied, ApplicationApplied, ApplicationInterviewing, ApplicationRejected, ApplicationOffered:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
