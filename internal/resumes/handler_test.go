package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	rg := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(rg)
	return r
}

func multipartUpload(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadEndpointAcceptsTxt(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	r := newTestRouter(t, newTestService(store, client))

	body, contentType := multipartUpload(t, "resume.txt", []byte("Jane Doe, Go engineer"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var decoded struct {
		ID             string `json:"id"`
		IsPrimary      bool   `json:"isPrimary"`
		AnalysisStatus string `json:"analysisStatus"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !decoded.IsPrimary {
		t.Fatalf("first upload must be primary")
	}
	if decoded.AnalysisStatus != AnalysisCompleted {
		t.Fatalf("unexpected analysis status %q", decoded.AnalysisStatus)
	}
}

func TestUploadEndpointRejectsUnknownExtension(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	r := newTestRouter(t, newTestService(store, client))

	body, contentType := multipartUpload(t, "resume.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if store.saves != 0 {
		t.Fatalf("blob store must not be touched for rejected uploads")
	}
}

func TestPreviewEndpoint404ForUnknownResume(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{raw: json.RawMessage(sampleProfileJSON)}
	r := newTestRouter(t, newTestService(store, client))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/nope/preview", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
