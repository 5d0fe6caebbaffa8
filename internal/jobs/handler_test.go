package jobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, client *fakeLLM) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &Service{
		Repo: NewMemoryRepo(),
		LLM:  client,
		Now:  func() time.Time { return time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC) },
	}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	rg := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(rg)
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateRejectsEmptyDescriptionBeforeLLM(t *testing.T) {
	client := &fakeLLM{jobRaw: json.RawMessage(sampleJobJSON)}
	r, _ := newTestRouter(t, client)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/jobs", gin.H{"jobDescription": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if client.calls != 0 {
		t.Fatalf("LLM must not be called for invalid input")
	}
}

func TestCreateReturnsAnalysisStatus(t *testing.T) {
	client := &fakeLLM{jobRaw: json.RawMessage(sampleJobJSON)}
	r, _ := newTestRouter(t, client)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/jobs", gin.H{"jobDescription": "hiring"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		ID             string `json:"id"`
		Status         string `json:"status"`
		AnalysisStatus string `json:"analysisStatus"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != StatusAnalyzed || body.AnalysisStatus != AnalysisCompleted {
		t.Fatalf("unexpected statuses %q / %q", body.Status, body.AnalysisStatus)
	}
}

func TestGetUnknownJobReturns404(t *testing.T) {
	client := &fakeLLM{jobRaw: json.RawMessage(sampleJobJSON)}
	r, _ := newTestRouter(t, client)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/jobs/nope", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Fatalf("unexpected error code %q", body.Error.Code)
	}
}

func TestDeleteThenRestoreOverHTTP(t *testing.T) {
	client := &fakeLLM{jobRaw: json.RawMessage(sampleJobJSON)}
	r, _ := newTestRouter(t, client)

	created := doJSON(t, r, http.MethodPost, "/api/v1/jobs", gin.H{"jobDescription": "hiring"})
	var job Job
	if err := json.Unmarshal(created.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}

	if resp := doJSON(t, r, http.MethodDelete, "/api/v1/jobs/"+job.ID, nil); resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.Code)
	}
	if resp := doJSON(t, r, http.MethodGet, "/api/v1/jobs/"+job.ID, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", resp.Code)
	}
	if resp := doJSON(t, r, http.MethodPost, "/api/v1/jobs/"+job.ID+"/restore", nil); resp.Code != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := doJSON(t, r, http.MethodGet, "/api/v1/jobs/"+job.ID, nil); resp.Code != http.StatusOK {
		t.Fatalf("get restored: expected 200, got %d", resp.Code)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	client := &fakeLLM{jobRaw: json.RawMessage(sampleJobJSON)}
	r, _ := newTestRouter(t, client)

	created := doJSON(t, r, http.MethodPost, "/api/v1/jobs", gin.H{"jobDescription": "hiring"})
	var job Job
	if err := json.Unmarshal(created.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}

	resp := doJSON(t, r, http.MethodPatch, "/api/v1/jobs/"+job.ID+"/status", gin.H{"applicationStatus": "ghosted"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodPatch, "/api/v1/jobs/"+job.ID+"/status", gin.H{"applicationStatus": "applied"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBulkDeleteRequiresIDs(t *testing.T) {
	client := &fakeLLM{jobRaw: json.RawMessage(sampleJobJSON)}
	r, _ := newTestRouter(t, client)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/jobs/bulk-delete", gin.H{"jobIds": []string{}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
