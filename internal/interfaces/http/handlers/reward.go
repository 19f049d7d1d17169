// internal/interfaces/http/handlers/reward.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/interfaces/http/middleware"
)

// RewardHandler handles reward catalogue and redemption endpoints
type RewardHandler struct {
	rewardService *reward.Service
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardService *reward.Service) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// ListRewards handles GET /rewards
func (h *RewardHandler) ListRewards(c *gin.Context) {
	rewards, err := h.rewardService.Catalog(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if rewards == nil {
		rewards = []reward.Reward{}
	}

	respond(c, http.StatusOK, "Rewards retrieved successfully", rewards)
}

// Redeem handles POST /rewards/:id/redeem
func (h *RewardHandler) Redeem(c *gin.Context) {
	result, err := h.rewardService.Redeem(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Reward redeemed successfully", result)
}

// RedeemStampCard handles POST /rewards/stamp-card/redeem
func (h *RewardHandler) RedeemStampCard(c *gin.Context) {
	member, err := h.rewardService.RedeemStampCard(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Stamp card redeemed successfully", member.Summary())
}

// History handles GET /rewards/history
func (h *RewardHandler) History(c *gin.Context) {
	entries, err := h.rewardService.History(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []reward.HistoryEntry{}
	}

	respond(c, http.StatusOK, "Reward history retrieved successfully", entries)
}
