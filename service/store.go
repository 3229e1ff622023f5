package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/zakellyputra/contractpilot/config"
	"github.com/zakellyputra/contractpilot/model"
)

// ReviewStore is an in-memory store for reviews and their clause records.
// Clauses are write-once per delivery from the analysis pipeline and read
// by the coordination engine; the unlocked flag is written only through
// the unlock transaction.
type ReviewStore struct {
	reviews    map[string]*model.Review
	clauses    map[string][]model.Clause
	revisions  map[string]int64 // bumped on every clause write
	mu         sync.RWMutex
	maxReviews int // Maximum reviews to keep, 0 = unlimited
}

var (
	globalStore *ReviewStore
	storeOnce   sync.Once
)

// InitReviewStore initializes the global review store with configuration
func InitReviewStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxReviews := cfg.MaxReviews
		if maxReviews < 0 {
			maxReviews = 0
		}
		globalStore = NewReviewStore(maxReviews)
		slog.Info("review store initialized", "max_reviews", maxReviews)
	})
}

// GetReviewStore returns the global review store
func GetReviewStore() *ReviewStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = NewReviewStore(100)
	}
	return globalStore
}

func NewReviewStore(maxReviews int) *ReviewStore {
	return &ReviewStore{
		reviews:    make(map[string]*model.Review),
		clauses:    make(map[string][]model.Clause),
		revisions:  make(map[string]int64),
		maxReviews: maxReviews,
	}
}

func (s *ReviewStore) Save(review *model.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review.UpdatedAt = time.Now()
	s.reviews[review.ID] = review

	// Cleanup if exceeds max
	s.cleanupIfNeeded()
}

func (s *ReviewStore) Get(id string) *model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviews[id]
}

// GetOwned returns the review only when it exists and belongs to userID.
func (s *ReviewStore) GetOwned(id, userID string) *model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.reviews[id]
	if r == nil || r.UserID != userID {
		return nil
	}
	return r
}

func (s *ReviewStore) GetByUser(userID string) []*model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Review
	for _, r := range s.reviews {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *ReviewStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reviews, id)
	delete(s.clauses, id)
	delete(s.revisions, id)
}

func (s *ReviewStore) UpdateStatus(id, status string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reviews[id]; ok {
		r.Status = status
		r.ErrorMsg = errMsg
		r.UpdatedAt = time.Now()
	}
}

// UpdateProgress records how many clauses the pipeline has analyzed so far.
func (s *ReviewStore) UpdateProgress(id string, completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reviews[id]; ok {
		r.CompletedClauses = completed
		if total > 0 {
			r.TotalClauses = total
		}
		r.UpdatedAt = time.Now()
	}
}

// AnalysisSummary carries the aggregate fields the pipeline callback writes.
type AnalysisSummary struct {
	ContractType     string
	Summary          string
	RiskScore        int
	FinancialRisk    int
	ComplianceRisk   int
	OperationalRisk  int
	ReputationalRisk int
	ActionItems      []string
	KeyDates         []model.KeyDate
	OCRUsed          bool
}

// ApplySummary writes the pipeline's aggregate results onto the review.
func (s *ReviewStore) ApplySummary(id string, sum AnalysisSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return
	}
	r.ContractType = sum.ContractType
	r.Summary = sum.Summary
	r.RiskScore = sum.RiskScore
	r.FinancialRisk = sum.FinancialRisk
	r.ComplianceRisk = sum.ComplianceRisk
	r.OperationalRisk = sum.OperationalRisk
	r.ReputationalRisk = sum.ReputationalRisk
	r.ActionItems = sum.ActionItems
	r.KeyDates = sum.KeyDates
	r.OCRUsed = sum.OCRUsed
	r.UpdatedAt = time.Now()
}

// ReplaceClauses stores the clause set delivered by the pipeline and bumps
// the review's clause revision so coordinator sessions reload.
func (s *ReviewStore) ReplaceClauses(reviewID string, clauses []model.Clause) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[reviewID]; !ok {
		return
	}
	for i := range clauses {
		clauses[i].ReviewID = reviewID
	}
	s.clauses[reviewID] = clauses
	s.revisions[reviewID]++
}

// AppendClauses adds incrementally delivered clauses to the review.
func (s *ReviewStore) AppendClauses(reviewID string, clauses []model.Clause) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[reviewID]; !ok {
		return
	}
	for i := range clauses {
		clauses[i].ReviewID = reviewID
	}
	s.clauses[reviewID] = append(s.clauses[reviewID], clauses...)
	s.revisions[reviewID]++
}

// Clauses returns a copy of the review's clause records in delivery order.
func (s *ReviewStore) Clauses(reviewID string) []model.Clause {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.clauses[reviewID]
	out := make([]model.Clause, len(stored))
	copy(out, stored)
	return out
}

// ClausesRevision returns a counter that changes whenever the review's
// clause set changes. Coordinator sessions use it to detect stale data.
func (s *ReviewStore) ClausesRevision(reviewID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revisions[reviewID]
}

// setUnlocked flips the one-way unlocked flag. Only the unlock transaction
// calls this; there is no path back to locked.
func (s *ReviewStore) setUnlocked(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reviews[id]; ok {
		r.Unlocked = true
		r.UpdatedAt = time.Now()
	}
}

// cleanupIfNeeded removes oldest reviews if store exceeds maxReviews
// Must be called with lock held
func (s *ReviewStore) cleanupIfNeeded() {
	if s.maxReviews <= 0 {
		return // Unlimited
	}

	if len(s.reviews) <= s.maxReviews {
		return
	}

	// Sort reviews by creation time
	reviews := make([]*model.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		reviews = append(reviews, r)
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
	})

	// Remove oldest reviews
	removeCount := len(reviews) - s.maxReviews
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old review",
			"review_id", reviews[i].ID,
			"created_at", reviews[i].CreatedAt,
		)
		delete(s.reviews, reviews[i].ID)
		delete(s.clauses, reviews[i].ID)
		delete(s.revisions, reviews[i].ID)
	}
}

// Count returns the number of reviews in the store
func (s *ReviewStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
