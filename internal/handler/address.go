package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/model"
	"github.com/skulkarni3/energy-insights/internal/service"
)

// AddressHandler handles address autocomplete HTTP requests
type AddressHandler struct {
	addressAPI service.AddressAPI
	logger     *logrus.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addressAPI service.AddressAPI, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		addressAPI: addressAPI,
		logger:     logger,
	}
}

// Suggest handles GET /api/v1/address/suggest. Autocomplete is a convenience:
// when the integration is disabled or failing, the user types the full
// address by hand, so every problem degrades to an empty list.
func (h *AddressHandler) Suggest(c *gin.Context) {
	query := c.Query("q")

	if h.addressAPI == nil || !h.addressAPI.IsEnabled() || query == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []model.AddressSuggestion{}})
		return
	}

	suggestions, err := h.addressAPI.Suggest(c.Request.Context(), query)
	if err != nil {
		h.logger.WithError(err).Warn("Address suggestion lookup failed")
		suggestions = []model.AddressSuggestion{}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
