package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"feedback-backend/internal/queue"
	"feedback-backend/internal/shared/server/middleware"
	"feedback-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.submit)
	rg.POST("/analyses/batch", h.submitBatch)
	rg.GET("/analyses", h.listHistory)
	rg.GET("/analyses/export", h.exportReport)
	rg.GET("/analyses/:id", h.getStatus)
	rg.GET("/analyses/:id/export", h.exportSingle)
	rg.DELETE("/analyses", h.deleteAll)
	rg.DELETE("/analyses/alerts", h.deleteAlerts)
	rg.DELETE("/analyses/:id", h.delete)
}

type submitRequest struct {
	Text string `json:"text"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be JSON with a text field", nil)
		return
	}

	analysis, err := h.Svc.Submit(requestContext(c), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyText):
			respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		case errors.Is(err, queue.ErrQueueFull), errors.Is(err, queue.ErrStopped):
			respond.Error(c, http.StatusServiceUnavailable, "queue_full", "analysis queue is full, try again later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit analysis", nil)
		}
		return
	}

	c.Set("jobId", analysis.ID)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"job_id": analysis.ID,
		"status": analysis.Status,
	})
}

func (h *Handler) submitBatch(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field 'file' is required", nil)
		return
	}
	opened, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer opened.Close()
	raw, err := io.ReadAll(opened)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	created, err := h.Svc.SubmitBatch(requestContext(c), raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadEncoding):
			respond.Error(c, http.StatusBadRequest, "bad_encoding", "file is not valid UTF-8 text", nil)
		case errors.Is(err, ErrEmptyBatch):
			respond.Error(c, http.StatusBadRequest, "empty_batch", "file contains no usable lines", nil)
		case errors.Is(err, queue.ErrQueueFull), errors.Is(err, queue.ErrStopped):
			respond.Error(c, http.StatusServiceUnavailable, "queue_full", "analysis queue is full, try again later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit batch", nil)
		}
		return
	}

	ids := make([]int64, 0, len(created))
	for _, a := range created {
		ids = append(ids, a.ID)
	}
	respond.JSON(c, http.StatusAccepted, gin.H{"job_ids": ids})
}

func (h *Handler) getStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	analysis, err := h.Svc.Get(requestContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.OK(c, recordView(analysis))
}

func (h *Handler) listHistory(c *gin.Context) {
	records, err := h.Svc.List(requestContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]gin.H, 0, len(records))
	for _, a := range records {
		resp = append(resp, recordView(a))
	}
	respond.OK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.Svc.Delete(requestContext(c), id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete analysis", nil)
		return
	}
	if !deleted {
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteAll(c *gin.Context) {
	if _, err := h.Svc.DeleteAll(requestContext(c)); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete analyses", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteAlerts(c *gin.Context) {
	threshold := 0
	if v := c.Query("threshold"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 10 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "threshold must be an integer between 1 and 10", nil)
			return
		}
		threshold = parsed
	}

	if _, err := h.Svc.DeleteAlerts(requestContext(c), threshold); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete alerts", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportReport(c *gin.Context) {
	alertsOnly, _ := strconv.ParseBool(c.DefaultQuery("alerts", "false"))

	doc, err := h.Svc.ExportReport(requestContext(c), alertsOnly)
	if err != nil {
		switch {
		case errors.Is(err, ErrNothingToExport):
			respond.Error(c, http.StatusNotFound, "nothing_to_export", "no completed analyses to export", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export report", nil)
		}
		return
	}

	writeAttachment(c, "feedback_report.txt", doc)
}

func (h *Handler) exportSingle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.Svc.ExportSingle(requestContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no completed analysis with that id", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export analysis", nil)
		}
		return
	}

	writeAttachment(c, fmt.Sprintf("analysis_%d.txt", id), doc)
}

func recordView(a Analysis) gin.H {
	view := gin.H{
		"id":         a.ID,
		"status":     a.Status,
		"created_at": a.CreatedAt,
	}
	if a.Status == StatusComplete && a.Result != nil {
		view["result"] = a.Result
	}
	if a.Status == StatusFailed {
		view["error_message"] = a.ErrorMessage
	}
	return view
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func requestContext(c *gin.Context) context.Context {
	return WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func writeAttachment(c *gin.Context, filename, doc string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}
