package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/jobs"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/resumes"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/usage"
)

var ErrInvalidInput = errors.New("invalid input")

// Service contains business logic for users and the dashboard summary.
type Service struct {
	Repo    Repo
	Jobs    *jobs.Service
	Resumes *resumes.Service
	Usage   *usage.Service
	Now     func() time.Time
}

// OnboardInput is the minimal profile needed to create an account.
type OnboardInput struct {
	UserID     string
	Email      string
	FirstName  string
	LastName   string
	PictureURL string
}

// Onboard creates a user or returns the existing one matching the email.
// The caller's authenticated identity becomes the user ID so subsequent
// requests resolve to the same row; a fresh ID is minted when absent.
func (s *Service) Onboard(ctx context.Context, input OnboardInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	id := strings.TrimSpace(input.UserID)
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now()
	user := User{
		ID:               id,
		Email:            email,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		PictureURL:       strings.TrimSpace(input.PictureURL),
		SubscriptionTier: usage.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// Dashboard is the landing-page summary: counts plus recent activity.
type Dashboard struct {
	Applications jobs.CountSummary `json:"applications"`
	RecentJobs   []jobs.Job        `json:"recentJobs"`
	ResumeCount  int               `json:"resumeCount"`
	Usage        *usage.Usage      `json:"usage,omitempty"`
}

// GetDashboard aggregates the user's jobs, resumes, and quota.
func (s *Service) GetDashboard(ctx context.Context, userID string) (Dashboard, error) {
	var dash Dashboard

	counts, err := s.Jobs.Counts(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count jobs: %w", err)
	}
	dash.Applications = counts

	recent, err := s.Jobs.List(ctx, userID, 5, 0, false)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list recent jobs: %w", err)
	}
	if recent == nil {
		recent = []jobs.Job{}
	}
	dash.RecentJobs = recent

	resumeList, err := s.Resumes.List(ctx, userID, 100, 0)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list resumes: %w", err)
	}
	dash.ResumeCount = len(resumeList)

	if s.Usage != nil {
		u, err := s.Usage.Get(ctx, userID)
		if err == nil {
			dash.Usage = &u
		}
	}
	return dash, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
