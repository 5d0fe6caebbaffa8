package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/server/middleware"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.DELETE("/jobs/:id", h.delete)
	rg.POST("/jobs/bulk-delete", h.bulkDelete)
	rg.POST("/jobs/:id/restore", h.restore)
	rg.PATCH("/jobs/:id/status", h.updateStatus)
	rg.POST("/jobs/:id/analyze", h.reAnalyze)
}

type createRequest struct {
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl"`
	Priority       string `json:"priority"`
	Notes          string `json:"notes"`
}

type jobWithAnalysisStatus struct {
	Job
	AnalysisStatus string `json:"analysisStatus"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		JobDescription: req.JobDescription,
		JobURL:         req.JobURL,
		Priority:       req.Priority,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrQuotaReached):
			respond.Error(c, http.StatusTooManyRequests, "quota_reached", "analysis quota reached for this period", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create job", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, jobWithAnalysisStatus{Job: result.Job, AnalysisStatus: result.AnalysisStatus})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	includeDeleted := c.Query("includeDeleted") == "true"

	jobsList, err := h.Svc.List(c.Request.Context(), userID, limit, offset, includeDeleted)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	if jobsList == nil {
		jobsList = []Job{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"jobs": jobsList})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondJobError(c, err, "failed to fetch job")
		return
	}
	respond.JSON(c, http.StatusOK, job)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondJobError(c, err, "failed to delete job")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

type bulkDeleteRequest struct {
	JobIDs []string `json:"jobIds"`
}

func (h *Handler) bulkDelete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	deleted, err := h.Svc.DeleteMany(c.Request.Context(), userID, req.JobIDs)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete jobs", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) restore(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Restore(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondJobError(c, err, "failed to restore job")
		return
	}
	respond.JSON(c, http.StatusOK, job)
}

type updateStatusRequest struct {
	ApplicationStatus string `json:"applicationStatus"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job, err := h.Svc.UpdateApplicationStatus(c.Request.Context(), userID, c.Param("id"), strings.TrimSpace(req.ApplicationStatus))
	if err != nil {
		respondJobError(c, err, "failed to update job status")
		return
	}
	respond.JSON(c, http.StatusOK, job)
}

func (h *Handler) reAnalyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.ReAnalyze(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrQuotaReached) {
			respond.Error(c, http.StatusTooManyRequests, "quota_reached", "analysis quota reached for this period", nil)
			return
		}
		respondJobError(c, err, "failed to re-analyze job")
		return
	}
	respond.JSON(c, http.StatusOK, jobWithAnalysisStatus{Job: result.Job, AnalysisStatus: result.AnalysisStatus})
}

func respondJobError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
