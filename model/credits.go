package model

// UserCredits is one user's consumable review-unlock balance.
// Balance never goes below zero; the ledger enforces this.
type UserCredits struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// UnlockResult is the outcome of an unlock transaction. AlreadyUnlocked
// means the review was unlocked before this call and no credit was debited.
type UnlockResult struct {
	Success         bool `json:"success"`
	AlreadyUnlocked bool `json:"alreadyUnlocked"`
}
