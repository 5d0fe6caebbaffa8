package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type stubStore struct {
	saveErr error
	keys    []string
}

func (s *stubStore) Save(ctx context.Context, userId, fileName string, r io.Reader) (string, int64, string, error) {
	return "", 0, "", errors.New("not used")
}

func (s *stubStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.keys = append(s.keys, storageKey)
	n, _ := io.Copy(io.Discard, r)
	return n, nil
}

func (s *stubStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (s *stubStore) Delete(ctx context.Context, storageKey string) error {
	return nil
}

func TestRecordWritesRawBackup(t *testing.T) {
	store := &stubStore{}
	svc := &Service{
		Repo:  NewMemoryRepo(),
		Store: store,
		Now:   func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) },
	}

	rec, err := svc.Record(context.Background(), RecordInput{
		UserID:     "user-1",
		SourceType: SourceTypeJob,
		SourceID:   "job-1",
		Raw:        json.RawMessage(`{"job_title":"SRE"}`),
		Result:     json.RawMessage(`{"job_title":"SRE"}`),
		Provider:   "openai",
		Model:      "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(store.keys) != 1 {
		t.Fatalf("expected one backup write, got %d", len(store.keys))
	}
	if !strings.HasPrefix(store.keys[0], "job/raw/") || !strings.HasSuffix(store.keys[0], ".json") {
		t.Fatalf("unexpected backup key %q", store.keys[0])
	}

	got, err := svc.GetByID(context.Background(), "user-1", rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SourceID != "job-1" {
		t.Fatalf("unexpected source id %q", got.SourceID)
	}
}

func TestRecordSurvivesBackupFailure(t *testing.T) {
	store := &stubStore{saveErr: errors.New("s3 down")}
	svc := &Service{Repo: NewMemoryRepo(), Store: store}

	rec, err := svc.Record(context.Background(), RecordInput{
		UserID:     "user-1",
		SourceType: SourceTypeResume,
		SourceID:   "resume-1",
		Raw:        json.RawMessage(`{"full_name":"Jane"}`),
	})
	if err != nil {
		t.Fatalf("Record should succeed despite backup failure: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "user-1", rec.ID); err != nil {
		t.Fatalf("record should be persisted: %v", err)
	}
}

func TestListBySourceNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		svc.Now = func() time.Time { return ts }
		if _, err := svc.Record(context.Background(), RecordInput{
			UserID:     "user-1",
			SourceType: SourceTypeJob,
			SourceID:   "job-1",
			Result:     json.RawMessage(`{}`),
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recs, err := svc.ListBySource(context.Background(), "user-1", SourceTypeJob, "job-1", 10)
	if err != nil {
		t.Fatalf("ListBySource: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.After(recs[i-1].CreatedAt) {
			t.Fatalf("records not newest-first")
		}
	}
}
