package service

import (
	"log/slog"
	"sync"
)

// CreditLedger holds each user's consumable review-unlock credits. It is
// the only writer of balances: additive grants and the unlock debit.
// Balances never go below zero.
type CreditLedger struct {
	mu            sync.Mutex
	balances      map[string]int
	signupGranted map[string]bool
}

func NewCreditLedger() *CreditLedger {
	return &CreditLedger{
		balances:      make(map[string]int),
		signupGranted: make(map[string]bool),
	}
}

// GetBalance returns the user's current balance, 0 if no record exists.
func (l *CreditLedger) GetBalance(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

// GrantCredits adds amount to the user's balance, creating the record
// lazily. The ledger does not deduplicate grants; callers replaying a
// grant request will grant twice.
func (l *CreditLedger) GrantCredits(userID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidGrant
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] += amount

	slog.Info("credits granted",
		"user_id", userID,
		"amount", amount,
		"balance", l.balances[userID],
	)
	return nil
}

// GrantSignupBonus grants the one-time signup credit. Safe to call on
// every login; only the first call per user grants.
func (l *CreditLedger) GrantSignupBonus(userID string, amount int) {
	if amount <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.signupGranted[userID] {
		return
	}
	l.signupGranted[userID] = true
	l.balances[userID] += amount

	slog.Info("signup credits granted", "user_id", userID, "amount", amount)
}

// debit consumes exactly one credit. Fails with ErrInsufficientCredits
// when the balance is zero, leaving it unchanged.
func (l *CreditLedger) debit(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[userID] <= 0 {
		return ErrInsufficientCredits
	}
	l.balances[userID]--
	return nil
}
