package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skulkarni3/energy-insights/internal/model"
	"github.com/skulkarni3/energy-insights/internal/service"
)

// FeedbackHandler handles recommendation feedback HTTP requests
type FeedbackHandler struct {
	insightService *service.InsightService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(insightService *service.InsightService) *FeedbackHandler {
	return &FeedbackHandler{
		insightService: insightService,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	if !h.insightService.HistoryEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Feedback is not enabled (no database configured)",
			"category": "disabled",
		})
		return
	}

	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request: " + err.Error(),
			"category": "validation",
		})
		return
	}

	// Validate action
	validActions := map[string]bool{
		"helpful":     true,
		"not_helpful": true,
		"dismissed":   true,
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid action. Must be one of: helpful, not_helpful, dismissed",
			"category": "validation",
		})
		return
	}

	err := h.insightService.LogFeedback(c.Request.Context(), req.LookupID, req.Recommendation, req.Action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Failed to log feedback: " + err.Error(),
			"category": "internal",
		})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
