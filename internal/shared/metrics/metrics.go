package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	jobAnalysisCompletedTotal    atomic.Uint64
	jobAnalysisFailedTotal       atomic.Uint64
	resumeAnalysisCompletedTotal atomic.Uint64
	resumeAnalysisFailedTotal    atomic.Uint64
	resumeUploadsTotal           atomic.Uint64
	resumeUploadsRejectedTotal   atomic.Uint64

	llmRequestDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncJobAnalysisCompleted increments the completed job-analysis counter.
func IncJobAnalysisCompleted() {
	jobAnalysisCompletedTotal.Add(1)
}

// IncJobAnalysisFailed increments the failed job-analysis counter.
func IncJobAnalysisFailed() {
	jobAnalysisFailedTotal.Add(1)
}

// IncResumeAnalysisCompleted increments the completed resume-analysis counter.
func IncResumeAnalysisCompleted() {
	resumeAnalysisCompletedTotal.Add(1)
}

// IncResumeAnalysisFailed increments the failed resume-analysis counter.
func IncResumeAnalysisFailed() {
	resumeAnalysisFailedTotal.Add(1)
}

// IncResumeUpload increments the accepted-uploads counter.
func IncResumeUpload() {
	resumeUploadsTotal.Add(1)
}

// IncResumeUploadRejected increments the rejected-uploads counter.
func IncResumeUploadRejected() {
	resumeUploadsRejectedTotal.Add(1)
}

// ObserveLLMRequestDurationMs records one hosted-model round trip in milliseconds.
func ObserveLLMRequestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmRequestDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "job_analysis_completed_total", "Total job-description analyses completed", jobAnalysisCompletedTotal.Load())
	writeCounter(&buf, "job_analysis_failed_total", "Total job-description analyses failed", jobAnalysisFailedTotal.Load())
	writeCounter(&buf, "resume_analysis_completed_total", "Total resume analyses completed", resumeAnalysisCompletedTotal.Load())
	writeCounter(&buf, "resume_analysis_failed_total", "Total resume analyses failed", resumeAnalysisFailedTotal.Load())
	writeCounter(&buf, "resume_uploads_total", "Total resume uploads accepted", resumeUploadsTotal.Load())
	writeCounter(&buf, "resume_uploads_rejected_total", "Total resume uploads rejected by validation", resumeUploadsRejectedTotal.Load())
	writeHistogram(&buf, "llm_request_duration_ms", "Hosted model round-trip duration in milliseconds", llmRequestDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
