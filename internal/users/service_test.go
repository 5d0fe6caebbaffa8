package users

import (
	"context"
	"testing"
	"time"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/jobs"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/resumes"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/usage"
)

func newTestService() (*Service, *jobs.MemoryRepo, *resumes.MemoryRepo) {
	jobRepo := jobs.NewMemoryRepo()
	resumeRepo := resumes.NewMemoryRepo()
	usageSvc := usage.NewService()
	svc := &Service{
		Repo:    NewMemoryRepo(),
		Jobs:    &jobs.Service{Repo: jobRepo, Usage: usageSvc},
		Resumes: &resumes.Service{Repo: resumeRepo, Usage: usageSvc},
		Usage:   usageSvc,
		Now:     func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, jobRepo, resumeRepo
}

func TestOnboardCreatesUserWithFreeTier(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.Onboard(context.Background(), OnboardInput{
		Email:     "  Alex@Example.com ",
		FirstName: "Alex",
		LastName:  "Rivera",
	})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user ID")
	}
	if user.Email != "alex@example.com" {
		t.Fatalf("expected lowercased trimmed email, got %q", user.Email)
	}
	if user.SubscriptionTier != usage.TierFree {
		t.Fatalf("expected free tier, got %q", user.SubscriptionTier)
	}
}

func TestOnboardReturnsExistingUser(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.Onboard(context.Background(), OnboardInput{Email: "alex@example.com", FirstName: "Alex"})
	if err != nil {
		t.Fatalf("first onboard: %v", err)
	}
	second, err := svc.Onboard(context.Background(), OnboardInput{Email: "ALEX@example.com", FirstName: "Alexandra"})
	if err != nil {
		t.Fatalf("second onboard: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same user, got %q and %q", first.ID, second.ID)
	}
	if second.FirstName != "Alex" {
		t.Fatalf("expected original profile returned, got first name %q", second.FirstName)
	}
}

func TestOnboardRejectsInvalidEmail(t *testing.T) {
	svc, _, _ := newTestService()

	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := svc.Onboard(context.Background(), OnboardInput{Email: email}); err == nil {
			t.Fatalf("expected error for email %q", email)
		}
	}
}

func TestDashboardAggregatesCountsAndRecentJobs(t *testing.T) {
	svc, jobRepo, resumeRepo := newTestService()
	ctx := context.Background()

	user, err := svc.Onboard(ctx, OnboardInput{Email: "alex@example.com"})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	seed := []jobs.Job{
		{ID: "j1", UserID: user.ID, JobTitle: "Backend Engineer", ApplicationStatus: jobs.ApplicationApplied, Priority: jobs.PriorityMedium, Status: jobs.StatusNew, CreatedAt: base},
		{ID: "j2", UserID: user.ID, JobTitle: "Data Engineer", ApplicationStatus: jobs.ApplicationInterviewing, Priority: jobs.PriorityHigh, Status: jobs.StatusNew, CreatedAt: base.Add(time.Hour)},
		{ID: "j3", UserID: user.ID, JobTitle: "SRE", ApplicationStatus: jobs.ApplicationNotApplied, Priority: jobs.PriorityLow, Status: jobs.StatusNew, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, j := range seed {
		if err := jobRepo.Create(ctx, j); err != nil {
			t.Fatalf("seed job: %v", err)
		}
	}
	if err := resumeRepo.Create(ctx, resumes.Resume{ID: "r1", UserID: user.ID, ResumeName: "Main", FileType: "pdf", Status: resumes.StatusActive, UploadedAt: base}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	dash, err := svc.GetDashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Applications.Total != 3 {
		t.Fatalf("expected 3 total jobs, got %d", dash.Applications.Total)
	}
	if dash.Applications.Applied != 1 || dash.Applications.Interviewing != 1 {
		t.Fatalf("unexpected counts: %+v", dash.Applications)
	}
	if len(dash.RecentJobs) != 3 {
		t.Fatalf("expected 3 recent jobs, got %d", len(dash.RecentJobs))
	}
	if dash.RecentJobs[0].ID != "j3" {
		t.Fatalf("expected newest job first, got %q", dash.RecentJobs[0].ID)
	}
	if dash.ResumeCount != 1 {
		t.Fatalf("expected 1 resume, got %d", dash.ResumeCount)
	}
	if dash.Usage == nil || dash.Usage.Limit != 25 {
		t.Fatalf("expected free-tier usage in dashboard, got %+v", dash.Usage)
	}
}

func TestDashboardEmptyForNewUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Onboard(ctx, OnboardInput{Email: "alex@example.com"})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	dash, err := svc.GetDashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Applications.Total != 0 || dash.ResumeCount != 0 {
		t.Fatalf("expected empty dashboard, got %+v", dash)
	}
	if dash.RecentJobs == nil || len(dash.RecentJobs) != 0 {
		t.Fatalf("expected empty non-nil recent jobs, got %#v", dash.RecentJobs)
	}
}
