package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/analysis"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/usage"
)

type fakeStore struct {
	saves   int
	deletes []string
	delErr  error
	blobs   map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string][]byte)}
}

func (f *fakeStore) Save(ctx context.Context, userId, fileName string, r io.Reader) (string, int64, string, error) {
	f.saves++
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := fmt.Sprintf("%s/%d_%s", userId, f.saves, fileName)
	f.blobs[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (f *fakeStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.blobs[storageKey] = data
	return int64(len(data)), nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.blobs[storageKey]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (f *fakeStore) Delete(ctx context.Context, storageKey string) error {
	f.deletes = append(f.deletes, storageKey)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.blobs, storageKey)
	return nil
}

func (f *fakeStore) PresignGet(ctx context.Context, storageKey string, expiry time.Duration, downloadName string) (string, error) {
	return fmt.Sprintf("https://signed.example/%s?ttl=%d&name=%s", storageKey, int(expiry.Seconds()), downloadName), nil
}

type fakeLLM struct {
	raw   json.RawMessage
	err   error
	calls int
}

func (f *fakeLLM) AnalyzeJobDescription(ctx context.Context, text string) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (f *fakeLLM) AnalyzeResume(ctx context.Context, text string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-model" }

const sampleProfileJSON = `{"full_name": "Jane Doe", "email": "jane@example.com", "skills": ["Go"]}`

func newTestService(store *fakeStore, client *fakeLLM) *Service {
	return &Service{
		Repo:      NewMemoryRepo(),
		Store:     store,
		Presigner: store,
		LLM:       client,
		Analyses:  &analysis.Service{Repo: analysis.NewMemoryRepo()},
		Now:       func() time.Time { return time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestUploadRejectsBadTypeBeforeExternalCalls(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	_, err := svc.Upload(context.Background(), "user-1", "", "malware.exe", strings.NewReader("MZ"))
	if !errors.Is(err, ErrBadFileType) {
		t.Fatalf("expected ErrBadFileType, got %v", err)
	}
	if store.saves != 0 || client.calls != 0 {
		t.Fatalf("no external call may happen on validation failure (saves=%d llm=%d)", store.saves, client.calls)
	}
}

func TestUploadRejectsOversizeBeforeExternalCalls(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	big := strings.NewReader(strings.Repeat("a", MaxUploadSize+1))
	_, err := svc.Upload(context.Background(), "user-1", "", "resume.txt", big)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if store.saves != 0 || client.calls != 0 {
		t.Fatalf("no external call may happen on validation failure (saves=%d llm=%d)", store.saves, client.calls)
	}
}

func TestUploadParsesAndStores(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	result, err := svc.Upload(context.Background(), "user-1", "My Resume", "resume.txt", strings.NewReader("Jane Doe\nGo engineer"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.AnalysisStatus != AnalysisCompleted {
		t.Fatalf("expected completed, got %q", result.AnalysisStatus)
	}
	if !result.Resume.IsPrimary {
		t.Fatalf("first resume must be primary")
	}
	if len(result.Resume.ParsedContent) == 0 {
		t.Fatalf("expected parsed content")
	}

	var profile analysis.ResumeProfile
	if err := json.Unmarshal(result.Resume.ParsedContent, &profile); err != nil {
		t.Fatalf("decode parsed content: %v", err)
	}
	if profile.FullName != "Jane Doe" {
		t.Fatalf("unexpected full name %q", profile.FullName)
	}
}

func TestUploadSurvivesLLMFailure(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{err: errors.New("provider down")}
	svc := newTestService(store, client)

	result, err := svc.Upload(context.Background(), "user-1", "", "resume.txt", strings.NewReader("Jane Doe"))
	if err != nil {
		t.Fatalf("Upload should survive LLM failure: %v", err)
	}
	if result.AnalysisStatus != AnalysisFailed {
		t.Fatalf("expected failed, got %q", result.AnalysisStatus)
	}
	if len(result.Resume.ParsedContent) != 0 {
		t.Fatalf("expected empty parsed content")
	}
	if _, err := svc.Get(context.Background(), "user-1", result.Resume.ID); err != nil {
		t.Fatalf("resume record must exist: %v", err)
	}
}

func TestUploadSkipsAnalysisWhenQuotaExhausted(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)
	svc.Usage = usage.NewService()

	limit := usage.LimitForTier(usage.TierFree)
	if _, err := svc.Usage.Consume(context.Background(), "user-1", limit); err != nil {
		t.Fatalf("exhaust quota: %v", err)
	}

	result, err := svc.Upload(context.Background(), "user-1", "", "resume.txt", strings.NewReader("Jane Doe"))
	if err != nil {
		t.Fatalf("Upload must not fail on exhausted quota: %v", err)
	}
	if result.AnalysisStatus != AnalysisFailed {
		t.Fatalf("expected failed analysis, got %q", result.AnalysisStatus)
	}
	if client.calls != 0 {
		t.Fatalf("provider must not be called when quota is exhausted")
	}
	if store.saves != 1 {
		t.Fatalf("blob must still be stored, saves=%d", store.saves)
	}
}

func TestSecondUploadIsNotPrimary(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	first, _ := svc.Upload(context.Background(), "user-1", "", "one.txt", strings.NewReader("Jane"))
	second, err := svc.Upload(context.Background(), "user-1", "", "two.txt", strings.NewReader("Jane v2"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !first.Resume.IsPrimary || second.Resume.IsPrimary {
		t.Fatalf("only the first resume may auto-become primary")
	}
}

func TestSetPrimaryIsExclusive(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	first, _ := svc.Upload(context.Background(), "user-1", "", "one.txt", strings.NewReader("Jane"))
	second, _ := svc.Upload(context.Background(), "user-1", "", "two.txt", strings.NewReader("Jane v2"))

	promoted, err := svc.SetPrimary(context.Background(), "user-1", second.Resume.ID)
	if err != nil {
		t.Fatalf("SetPrimary: %v", err)
	}
	if !promoted.IsPrimary {
		t.Fatalf("promoted resume must be primary")
	}

	demoted, err := svc.Get(context.Background(), "user-1", first.Resume.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if demoted.IsPrimary {
		t.Fatalf("previous primary must lose the flag")
	}

	if _, err := svc.SetPrimary(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesBlobAndRecord(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	result, _ := svc.Upload(context.Background(), "user-1", "", "one.txt", strings.NewReader("Jane"))

	if err := svc.Delete(context.Background(), "user-1", result.Resume.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deletes) != 1 {
		t.Fatalf("expected one blob delete, got %d", len(store.deletes))
	}
	if _, err := svc.Get(context.Background(), "user-1", result.Resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record must be gone, got %v", err)
	}
}

func TestDeleteKeepsGoingWhenBlobDeleteFails(t *testing.T) {
	store := newFakeStore()
	store.delErr = errors.New("s3 down")
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	result, _ := svc.Upload(context.Background(), "user-1", "", "one.txt", strings.NewReader("Jane"))

	if err := svc.Delete(context.Background(), "user-1", result.Resume.ID); err != nil {
		t.Fatalf("Delete should succeed despite blob failure: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", result.Resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record must be removed, got %v", err)
	}
}

func TestPreviewAndDownloadExpiries(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	svc := newTestService(store, client)

	result, _ := svc.Upload(context.Background(), "user-1", "", "one.txt", strings.NewReader("Jane"))

	preview, err := svc.PreviewURL(context.Background(), "user-1", result.Resume.ID)
	if err != nil {
		t.Fatalf("PreviewURL: %v", err)
	}
	if !strings.Contains(preview, "ttl=7200") {
		t.Fatalf("preview should be signed for 2h, got %q", preview)
	}

	download, err := svc.DownloadURL(context.Background(), "user-1", result.Resume.ID)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if !strings.Contains(download, "ttl=3600") {
		t.Fatalf("download should be signed for 1h, got %q", download)
	}
	if !strings.Contains(download, "name=one.txt") {
		t.Fatalf("download should carry the original filename, got %q", download)
	}
}
