// internal/interfaces/http/handlers/loyalty.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/interfaces/http/middleware"
)

// LoyaltyHandler handles loyalty account endpoints
type LoyaltyHandler struct {
	loyaltyService *loyalty.Service
}

// NewLoyaltyHandler creates a new loyalty handler
func NewLoyaltyHandler(loyaltyService *loyalty.Service) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService}
}

// GetAccount handles GET /loyalty
func (h *LoyaltyHandler) GetAccount(c *gin.Context) {
	member, err := h.loyaltyService.Get(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Loyalty account retrieved successfully", member.Summary())
}

// UpdateProfile handles PUT /loyalty/profile
func (h *LoyaltyHandler) UpdateProfile(c *gin.Context) {
	var req loyalty.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	member, err := h.loyaltyService.UpdateProfile(c.Request.Context(), middleware.GetCustomerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", member.Summary())
}

// Stream handles GET /loyalty/stream
func (h *LoyaltyHandler) Stream(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)

	updates, cancel := h.loyaltyService.Subscribe(customerID)
	defer cancel()

	member, err := h.loyaltyService.Get(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	streamEvents(c, "loyalty", member.Summary(), updates, func(next loyalty.Member) interface{} {
		return next.Summary()
	})
}
