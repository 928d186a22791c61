package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/civicgrid/complaint-service/internal/errs"
	"github.com/civicgrid/complaint-service/internal/kafka"
	"github.com/civicgrid/complaint-service/internal/routing"
	"github.com/civicgrid/complaint-service/internal/searchindex"
	"github.com/civicgrid/complaint-service/internal/service"
	"github.com/gin-gonic/gin"
)

// ComplaintHandler adapts the complaint service to HTTP.
type ComplaintHandler struct {
	svc      service.ComplaintServicer
	activity service.ActivityServicer
	engine   *routing.Engine
	producer kafka.ComplaintEventProducer
	search   *searchindex.Client
}

func NewComplaintHandler(
	svc service.ComplaintServicer,
	activity service.ActivityServicer,
	engine *routing.Engine,
	producer kafka.ComplaintEventProducer,
	search *searchindex.Client,
) *ComplaintHandler {
	return &ComplaintHandler{svc: svc, activity: activity, engine: engine, producer: producer, search: search}
}

// actorID extracts the opaque actor identity supplied by the session
// collaborator. The pipeline never interprets it.
func actorID(c *gin.Context) string {
	return c.GetHeader("X-Actor-ID")
}

func mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDuplicateVote),
		errors.Is(err, errs.ErrComplaintClosed),
		errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type createComplaintRequest struct {
	Description string `json:"description" binding:"required,min=10"`
	Location    string `json:"location"`
	PhotoRef    string `json:"photo_ref"`
	Severity    int    `json:"severity"`
	Category    string `json:"category"` // optional manual override
}

func (h *ComplaintHandler) Create(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description of at least 10 characters is required"})
		return
	}
	complaint, err := h.svc.Create(c.Request.Context(), service.CreateComplaintInput{
		Description:      req.Description,
		Location:         req.Location,
		PhotoRef:         req.PhotoRef,
		SubmittedBy:      actorID(c),
		Severity:         req.Severity,
		CategoryOverride: req.Category,
	})
	if err != nil {
		mapError(c, err)
		return
	}
	h.producer.ProduceComplaintEventAsync("complaint.created", kafka.ComplaintPayload(complaint))
	h.search.IndexComplaintAsync(complaint)
	c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *ComplaintHandler) List(c *gin.Context) {
	filter := make(map[string]interface{})
	if v := c.Query("category"); v != "" && v != "All" {
		filter["category = ?"] = v
	}
	if v := c.Query("status"); v != "" && v != "All" {
		filter["status = ?"] = v
	}
	if v := c.Query("department"); v != "" {
		filter["department = ?"] = v
	}
	if v := c.Query("submitted_by"); v != "" {
		filter["submitted_by = ?"] = v
	}
	if v := c.Query("needs_review"); v == "true" {
		filter["needs_review = ?"] = true
	}

	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	items, total, err := h.svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"complaints": items,
		"total":      total,
	})
}

func (h *ComplaintHandler) Vote(c *gin.Context) {
	voter := actorID(c)
	if voter == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voter identity required (X-Actor-ID)"})
		return
	}
	complaint, err := h.svc.RegisterVote(c.Request.Context(), c.Param("id"), voter)
	if err != nil {
		mapError(c, err)
		return
	}
	h.producer.ProduceComplaintEventAsync("complaint.updated", kafka.ComplaintPayload(complaint))
	c.JSON(http.StatusOK, gin.H{
		"votes":          complaint.VoteCount,
		"priority_score": complaint.PriorityScore,
	})
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ComplaintHandler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), actorID(c), req.Text)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Classify previews classification without persisting anything. It exposes
// the routing engine directly for client-side category suggestions.
func (h *ComplaintHandler) Classify(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description of at least 10 characters is required"})
		return
	}
	c.JSON(http.StatusOK, h.engine.Route(req.Description, req.Category))
}

func (h *ComplaintHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, routing.Categories())
}

func (h *ComplaintHandler) Analytics(c *gin.Context) {
	summary, err := h.svc.Analytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate analytics"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ComplaintHandler) RecentActivity(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	records, err := h.activity.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activity"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *ComplaintHandler) ComplaintActivity(c *gin.Context) {
	records, err := h.activity.ForComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activity"})
		return
	}
	c.JSON(http.StatusOK, records)
}
