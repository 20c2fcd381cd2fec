package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skulkarni3/energy-insights/internal/model"
	"github.com/skulkarni3/energy-insights/internal/service"
)

// InsightHandler handles insight lookup HTTP requests
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

// Lookup handles POST /api/v1/insights
func (h *InsightHandler) Lookup(c *gin.Context) {
	var req model.InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request: " + err.Error(),
			"category": "validation",
		})
		return
	}

	response, err := h.insightService.Lookup(c.Request.Context(), &req)
	if err != nil {
		status, message := mapServiceError(err)
		c.JSON(status, gin.H{
			"error":    message,
			"category": service.Category(err),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ServiceArea handles GET /api/v1/service-area
func (h *InsightHandler) ServiceArea(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat", "category": "validation"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lon", "category": "validation"})
		return
	}
	postalCode := c.Query("postal_code")

	area, err := h.insightService.CheckServiceArea(c.Request.Context(), lat, lon, postalCode)
	if err != nil {
		status, message := mapServiceError(err)
		c.JSON(status, gin.H{"error": message, "category": service.Category(err)})
		return
	}

	c.JSON(http.StatusOK, area)
}

// History handles GET /api/v1/history
func (h *InsightHandler) History(c *gin.Context) {
	if !h.insightService.HistoryEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Lookup history is not enabled (no database configured)",
			"category": "disabled",
		})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "category": "validation"})
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = parsed
	}

	records, err := h.insightService.RecentLookups(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Failed to fetch history: " + err.Error(),
			"category": "internal",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lookups": records})
}

// mapServiceError converts a service-layer error into an HTTP status and a
// user-displayable message. Raw transport details never reach the UI.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyAddress):
		return http.StatusBadRequest, "Please enter an address."
	case errors.Is(err, service.ErrAuthentication):
		return http.StatusUnauthorized, "The data provider rejected the configured API key. Check the key and restart the service."
	case errors.Is(err, service.ErrInvalidResponse):
		return http.StatusNotFound, "No data available for this address."
	case errors.Is(err, service.ErrTransport):
		return http.StatusBadGateway, "Could not reach the data provider. Please try again."
	case errors.Is(err, service.ErrDisabled):
		return http.StatusServiceUnavailable, "This integration is not enabled."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}
