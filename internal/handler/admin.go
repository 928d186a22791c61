package handler

import (
	"net/http"

	"github.com/civicgrid/complaint-service/internal/kafka"
	"github.com/civicgrid/complaint-service/internal/model"
	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus applies a staff status transition through the state machine.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	actor := actorID(c)
	if actor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff identity required (X-Actor-ID)"})
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	status := model.ComplaintStatus(req.Status)
	if !model.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status value"})
		return
	}
	complaint, err := h.svc.Transition(c.Request.Context(), c.Param("id"), status, actor)
	if err != nil {
		mapError(c, err)
		return
	}
	h.producer.ProduceComplaintEventAsync("complaint.updated", kafka.ComplaintPayload(complaint))
	h.search.IndexComplaintAsync(complaint)
	c.JSON(http.StatusOK, complaint)
}

type assignRequest struct {
	Department string `json:"department" binding:"required"`
}

// Assign reroutes a complaint to another department.
func (h *ComplaintHandler) Assign(c *gin.Context) {
	actor := actorID(c)
	if actor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff identity required (X-Actor-ID)"})
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department is required"})
		return
	}
	complaint, err := h.svc.Assign(c.Request.Context(), c.Param("id"), req.Department, actor)
	if err != nil {
		mapError(c, err)
		return
	}
	h.producer.ProduceComplaintEventAsync("complaint.updated", kafka.ComplaintPayload(complaint))
	c.JSON(http.StatusOK, complaint)
}

type noteRequest struct {
	Text string `json:"text" binding:"required"`
}

// Note appends a staff note; the response is the note_added activity record.
func (h *ComplaintHandler) Note(c *gin.Context) {
	actor := actorID(c)
	if actor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff identity required (X-Actor-ID)"})
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note text is required"})
		return
	}
	record, err := h.svc.AddNote(c.Request.Context(), c.Param("id"), actor, req.Text)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}
