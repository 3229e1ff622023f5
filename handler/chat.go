package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/pkg/logger"
	"github.com/zakellyputra/contractpilot/service"
)

// ChatHandler serves the per-clause inspector chat. Chat is a premium
// surface: it requires the review to be unlocked (or a pro plan).
type ChatHandler struct {
	chatStore *service.ChatStore
	store     *service.ReviewStore
	ledger    *service.CreditLedger
}

func NewChatHandler(chatStore *service.ChatStore, ledger *service.CreditLedger) *ChatHandler {
	return &ChatHandler{
		chatStore: chatStore,
		store:     service.GetReviewStore(),
		ledger:    ledger,
	}
}

type ChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetHistory returns the chat transcript for one clause
func (h *ChatHandler) GetHistory(c *gin.Context) {
	reviewID := c.Param("id")
	clauseID := c.Param("clauseId")
	userID := middleware.GetUserID(c)

	review := h.store.GetOwned(reviewID, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if !hasPremiumAccess(c, review) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":       "Review is locked",
			"placeholder": placeholderFor(h.ledger.GetBalance(userID)),
		})
		return
	}

	messages, err := h.chatStore.History(c.Request.Context(), reviewID, clauseID)
	if err != nil {
		logger.Error(c.Request.Context(), "chat history failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review_id": reviewID,
		"clause_id": clauseID,
		"messages":  messages,
	})
}

// PostMessage appends a user question to the clause transcript. The
// answer arrives asynchronously from the analysis pipeline, so the
// response only acknowledges the question.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	reviewID := c.Param("id")
	clauseID := c.Param("clauseId")
	userID := middleware.GetUserID(c)

	review := h.store.GetOwned(reviewID, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if !hasPremiumAccess(c, review) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":       "Review is locked",
			"placeholder": placeholderFor(h.ledger.GetBalance(userID)),
		})
		return
	}

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	msg := service.ChatMessage{
		Role:      "user",
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := h.chatStore.Append(c.Request.Context(), reviewID, clauseID, msg); err != nil {
		logger.Error(c.Request.Context(), "chat append failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	messages, err := h.chatStore.History(c.Request.Context(), reviewID, clauseID)
	if err != nil {
		logger.Error(c.Request.Context(), "chat history failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review_id": reviewID,
		"clause_id": clauseID,
		"messages":  messages,
		"status":    "pending",
	})
}
