package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skulkarni3/energy-insights/internal/service"
)

// UtilityHandler handles utility-data connection HTTP requests
type UtilityHandler struct {
	utilityAPI service.UtilityAPI
}

// NewUtilityHandler creates a new utility handler
func NewUtilityHandler(utilityAPI service.UtilityAPI) *UtilityHandler {
	return &UtilityHandler{
		utilityAPI: utilityAPI,
	}
}

// CreateCustomer handles POST /api/v1/utility/customers. The response
// carries the onboarding link the user opens to grant access to their
// utility account.
func (h *UtilityHandler) CreateCustomer(c *gin.Context) {
	if h.utilityAPI == nil || !h.utilityAPI.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Utility data connection is not enabled",
			"category": "disabled",
		})
		return
	}

	customer, err := h.utilityAPI.CreateCustomer(c.Request.Context())
	if err != nil {
		status, message := mapServiceError(err)
		c.JSON(status, gin.H{"error": message, "category": service.Category(err)})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /api/v1/utility/customers/:id. The UI polls this
// until the customer has filled credentials and bills are ready.
func (h *UtilityHandler) GetCustomer(c *gin.Context) {
	if h.utilityAPI == nil || !h.utilityAPI.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Utility data connection is not enabled",
			"category": "disabled",
		})
		return
	}

	customer, err := h.utilityAPI.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, message := mapServiceError(err)
		c.JSON(status, gin.H{"error": message, "category": service.Category(err)})
		return
	}

	c.JSON(http.StatusOK, customer)
}
