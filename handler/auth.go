package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/zakellyputra/contractpilot/config"
	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/service"
)

type AuthHandler struct {
	config *config.Config
	ledger *service.CreditLedger
}

func NewAuthHandler(cfg *config.Config, ledger *service.CreditLedger) *AuthHandler {
	return &AuthHandler{config: cfg, ledger: ledger}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Plan      string `json:"plan"`
	Credits   int    `json:"credits"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Find user in config
	user := h.config.FindUser(req.Username)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	// First login grants the free review credit
	h.ledger.GrantSignupBonus(user.ID, h.config.Credits.SignupGrant)

	// Generate token
	token, expiresAt, err := middleware.GenerateToken(user.ID, user.Username, user.Plan, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		UserID:    user.ID,
		Username:  user.Username,
		Plan:      user.Plan,
		Credits:   h.ledger.GetBalance(user.ID),
	})
}

// GetCurrentUser returns the current user info
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"username": middleware.GetUsername(c),
		"plan":     middleware.GetPlan(c),
		"credits":  h.ledger.GetBalance(userID),
	})
}
