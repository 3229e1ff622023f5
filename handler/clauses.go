package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zakellyputra/contractpilot/config"
	"github.com/zakellyputra/contractpilot/coordination"
	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/model"
	"github.com/zakellyputra/contractpilot/service"
)

type ClausesHandler struct {
	config *config.Config
	store  *service.ReviewStore
	ledger *service.CreditLedger
}

func NewClausesHandler(cfg *config.Config, ledger *service.CreditLedger) *ClausesHandler {
	return &ClausesHandler{
		config: cfg,
		store:  service.GetReviewStore(),
		ledger: ledger,
	}
}

// GetGroups returns the review's clauses organized into display groups:
// top-level clauses with their sub-clauses attached, plus synthesized
// header groups for sub-clauses whose parent was never extracted. On a
// locked review only the first few groups are returned, with the
// analysis text redacted.
func (h *ClausesHandler) GetGroups(c *gin.Context) {
	reviewID := c.Param("id")
	userID := middleware.GetUserID(c)

	review := h.store.GetOwned(reviewID, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	clauses := h.store.Clauses(reviewID)
	groups := coordination.BuildGroups(clauses)
	locked := !hasPremiumAccess(c, review)

	if locked {
		preview := h.config.Store.PreviewClauses
		if len(groups) > preview {
			groups = groups[:preview]
		}
		for i := range groups {
			redactGroup(&groups[i])
		}
	}

	resp := gin.H{
		"review_id":     reviewID,
		"groups":        groupsJSON(groups),
		"total_clauses": len(clauses),
		"locked":        locked,
	}
	if locked {
		resp["placeholder"] = placeholderFor(h.ledger.GetBalance(userID))
	}
	c.JSON(http.StatusOK, resp)
}

// GetOverlays returns highlight rectangles for one rendered page, scaled
// from extraction coordinates to the client's rendered width.
func (h *ClausesHandler) GetOverlays(c *gin.Context) {
	reviewID := c.Param("id")
	userID := middleware.GetUserID(c)

	review := h.store.GetOwned(reviewID, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	width, err := strconv.ParseFloat(c.DefaultQuery("width", "0"), 64)
	if err != nil || width <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid width"})
		return
	}

	overlays := coordination.PageOverlays(h.store.Clauses(reviewID), page, width)
	c.JSON(http.StatusOK, gin.H{
		"review_id": reviewID,
		"page":      page,
		"width":     width,
		"overlays":  overlays,
	})
}

// redactGroup strips the analysis text from a preview group while
// keeping type, risk and position so the list renders.
func redactGroup(g *coordination.Group) {
	if g.Clause != nil {
		redacted := *g.Clause
		redacted.Concern = ""
		redacted.Suggestion = ""
		g.Clause = &redacted
	}
	for i := range g.Children {
		g.Children[i].Concern = ""
		g.Children[i].Suggestion = ""
	}
}

func groupsJSON(groups []coordination.Group) []gin.H {
	out := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		item := gin.H{
			"id":           g.ID,
			"heading":      g.Heading,
			"has_children": g.HasChildren,
			"child_count":  g.ChildCount,
			"worst_risk":   g.WorstRisk,
			"children":     clausesOrEmpty(g.Children),
		}
		switch g.Kind {
		case coordination.KindOrphanHeader:
			item["kind"] = "orphan_header"
		default:
			item["kind"] = "clause"
			item["clause"] = g.Clause
		}
		out = append(out, item)
	}
	return out
}

func clausesOrEmpty(clauses []model.Clause) []model.Clause {
	if clauses == nil {
		return []model.Clause{}
	}
	return clauses
}
