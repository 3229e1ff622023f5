package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/zakellyputra/contractpilot/coordination"
	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/service"
)

// SelectionHandler exposes the per-user selection state of a review.
// Each (review, user) pair gets its own coordinator so concurrent
// viewers never see each other's hovers or clicks.
type SelectionHandler struct {
	store *service.ReviewStore

	mu       sync.Mutex
	sessions map[string]*selectionSession
}

type selectionSession struct {
	coord    *coordination.Coordinator
	revision int64
}

func NewSelectionHandler() *SelectionHandler {
	return &SelectionHandler{
		store:    service.GetReviewStore(),
		sessions: make(map[string]*selectionSession),
	}
}

// session returns the coordinator for the (review, user) pair, creating
// it on first use and reloading it when the clause set has changed since
// the last event.
func (h *SelectionHandler) session(reviewID, userID string) *selectionSession {
	key := reviewID + ":" + userID
	revision := h.store.ClausesRevision(reviewID)

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[key]
	if !ok {
		s = &selectionSession{
			coord:    coordination.NewCoordinator(h.store.Clauses(reviewID)),
			revision: revision,
		}
		h.sessions[key] = s
	}
	if s.revision != revision {
		s.coord.Reload(h.store.Clauses(reviewID))
		s.revision = revision
	}
	return s
}

// DropReview discards the selection state of every viewer of a review.
// Called when the review itself is deleted.
func (h *SelectionHandler) DropReview(reviewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	prefix := reviewID + ":"
	for key := range h.sessions {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(h.sessions, key)
		}
	}
}

type SelectionEventRequest struct {
	Event    string `json:"event"` // hover, hoverend, click, toggle
	ClauseID string `json:"clauseId,omitempty"`
	GroupID  string `json:"groupId,omitempty"`
}

// PostEvent applies one interaction event and returns the resulting
// selection snapshot.
func (h *SelectionHandler) PostEvent(c *gin.Context) {
	reviewID := c.Param("id")
	userID := middleware.GetUserID(c)

	if h.store.GetOwned(reviewID, userID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var req SelectionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s := h.session(reviewID, userID)
	switch req.Event {
	case "hover":
		s.coord.Hover(req.ClauseID)
	case "hoverend":
		s.coord.HoverEnd()
	case "click":
		s.coord.Click(req.ClauseID)
	case "toggle":
		s.coord.ToggleGroup(req.GroupID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event"})
		return
	}

	c.JSON(http.StatusOK, s.coord.Snapshot())
}

// GetSelection returns the caller's current selection snapshot without
// applying an event.
func (h *SelectionHandler) GetSelection(c *gin.Context) {
	reviewID := c.Param("id")
	userID := middleware.GetUserID(c)

	if h.store.GetOwned(reviewID, userID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, h.session(reviewID, userID).coord.Snapshot())
}
