package service

import (
	"log/slog"
	"sync"

	"github.com/zakellyputra/contractpilot/model"
)

// UnlockService performs the one state transition of a (review, user)
// pair: LOCKED to UNLOCKED, debiting exactly one credit. The check-debit-
// mark sequence runs under a per-review mutex so concurrent unlock calls
// for the same review serialize; unlocks of different reviews proceed in
// parallel.
type UnlockService struct {
	store  *ReviewStore
	ledger *CreditLedger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUnlockService(store *ReviewStore, ledger *CreditLedger) *UnlockService {
	return &UnlockService{
		store:  store,
		ledger: ledger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *UnlockService) reviewLock(reviewID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[reviewID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[reviewID] = lock
	}
	return lock
}

// Unlock atomically checks the review's unlock state, checks and debits
// the caller's credit balance, and marks the review unlocked.
//
// An already-unlocked review returns {success, alreadyUnlocked} without
// touching the ledger, which makes double-clicks and replayed requests
// no-ops. A zero balance fails with ErrInsufficientCredits and changes
// nothing. A missing review, or one owned by another user, fails with
// ErrNotFound.
func (s *UnlockService) Unlock(reviewID, userID string) (model.UnlockResult, error) {
	lock := s.reviewLock(reviewID)
	lock.Lock()
	defer lock.Unlock()

	review := s.store.GetOwned(reviewID, userID)
	if review == nil {
		return model.UnlockResult{}, ErrNotFound
	}

	if review.Unlocked {
		return model.UnlockResult{Success: true, AlreadyUnlocked: true}, nil
	}

	if err := s.ledger.debit(userID); err != nil {
		return model.UnlockResult{}, err
	}

	s.store.setUnlocked(reviewID)

	slog.Info("review unlocked",
		"review_id", reviewID,
		"user_id", userID,
		"balance", s.ledger.GetBalance(userID),
	)

	return model.UnlockResult{Success: true, AlreadyUnlocked: false}, nil
}
