package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/model"
)

// Placeholder kinds a locked premium view renders instead of its content.
const (
	// PlaceholderUnlock offers a one-click unlock consuming a credit.
	PlaceholderUnlock = "unlock"
	// PlaceholderPurchase redirects to the credit-purchase flow.
	PlaceholderPurchase = "purchase"
)

// placeholderFor picks the obscured-view variant: a user with credits gets
// the unlock offer, a user at zero balance gets the purchase redirect.
func placeholderFor(balance int) string {
	if balance > 0 {
		return PlaceholderUnlock
	}
	return PlaceholderPurchase
}

// hasPremiumAccess reports whether the caller may see the review's gated
// content: the review was unlocked, or the caller's paid plan overrides
// per-review unlocks.
func hasPremiumAccess(c *gin.Context, review *model.Review) bool {
	return review.Unlocked || middleware.GetPlan(c) == "pro"
}
