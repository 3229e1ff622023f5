package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zakellyputra/contractpilot/config"
	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/pkg/logger"
	"github.com/zakellyputra/contractpilot/service"
)

type CreditsHandler struct {
	config *config.Config
	ledger *service.CreditLedger
	unlock *service.UnlockService
}

func NewCreditsHandler(cfg *config.Config, ledger *service.CreditLedger, unlock *service.UnlockService) *CreditsHandler {
	return &CreditsHandler{
		config: cfg,
		ledger: ledger,
		unlock: unlock,
	}
}

// GetBalance returns the caller's current credit balance
func (h *CreditsHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	c.JSON(http.StatusOK, gin.H{"credits": h.ledger.GetBalance(userID)})
}

type GrantRequest struct {
	Amount int `json:"amount"`
}

// Grant adds credits to the caller's balance
func (h *CreditsHandler) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Amount < 1 || req.Amount > h.config.Credits.MaxGrant {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant amount"})
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.ledger.GrantCredits(userID, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant amount"})
		return
	}

	balance := h.ledger.GetBalance(userID)
	logger.Info(c.Request.Context(), "credits granted", "amount", req.Amount, "balance", balance)
	c.JSON(http.StatusOK, gin.H{"credits": balance})
}

// Unlock spends one credit to unlock a review. Unlocking an already
// unlocked review succeeds without charging again.
func (h *CreditsHandler) Unlock(c *gin.Context) {
	reviewID := c.Param("id")
	userID := middleware.GetUserID(c)

	result, err := h.unlock.Unlock(reviewID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":       "Insufficient credits",
				"placeholder": PlaceholderPurchase,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unlock failed"})
		}
		return
	}

	if !result.AlreadyUnlocked {
		logger.Info(c.Request.Context(), "review unlocked", "review_id", reviewID)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          result.Success,
		"already_unlocked": result.AlreadyUnlocked,
		"credits":          h.ledger.GetBalance(userID),
	})
}
