package service

import "errors"

// Sentinel errors surfaced by the ledger and unlock transaction. Handlers
// map them to HTTP statuses; any of them leaves state unchanged.
var (
	// ErrNotFound: the review does not exist or belongs to another user.
	ErrNotFound = errors.New("review not found")
	// ErrInsufficientCredits: unlock attempted with a zero balance.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrInvalidGrant: a grant amount that is not a positive integer.
	ErrInvalidGrant = errors.New("grant amount must be a positive integer")
)
