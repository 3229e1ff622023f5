package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zakellyputra/contractpilot/model"
	"github.com/zakellyputra/contractpilot/pkg/logger"
	"github.com/zakellyputra/contractpilot/service"
)

type CallbackHandler struct {
	analysisService *service.AnalysisService
	store           *service.ReviewStore
}

func NewCallbackHandler(analysisSvc *service.AnalysisService) *CallbackHandler {
	return &CallbackHandler{
		analysisService: analysisSvc,
		store:           service.GetReviewStore(),
	}
}

type CallbackRequest struct {
	Checksum string `json:"checksum"`
	Content  string `json:"content"`
}

// CallbackContent is the analysis pipeline's result payload. Completed
// runs carry the full clause list and the review aggregates; processing
// updates may carry partial clause batches and progress counters.
type CallbackContent struct {
	ReviewID         string          `json:"review_id"`
	State            string          `json:"state"` // processing, completed, failed
	ErrorMsg         string          `json:"err_msg,omitempty"`
	CompletedClauses int             `json:"completed_clauses,omitempty"`
	TotalClauses     int             `json:"total_clauses,omitempty"`
	ContractType     string          `json:"contract_type,omitempty"`
	Summary          string          `json:"summary,omitempty"`
	RiskScore        int             `json:"risk_score,omitempty"`
	FinancialRisk    int             `json:"financial_risk,omitempty"`
	ComplianceRisk   int             `json:"compliance_risk,omitempty"`
	OperationalRisk  int             `json:"operational_risk,omitempty"`
	ReputationalRisk int             `json:"reputational_risk,omitempty"`
	ActionItems      []string        `json:"action_items,omitempty"`
	KeyDates         []model.KeyDate `json:"key_dates,omitempty"`
	OCRUsed          bool            `json:"ocr_used,omitempty"`
	Clauses          []model.Clause  `json:"clauses,omitempty"`
}

// HandleCallback receives analysis results from the pipeline
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Parse content
	var content CallbackContent
	if err := json.Unmarshal([]byte(req.Content), &content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content format"})
		return
	}

	if !h.analysisService.VerifyCallback(req.Checksum, req.Content, content.ReviewID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid checksum"})
		return
	}

	review := h.store.Get(content.ReviewID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	switch content.State {
	case "processing":
		h.store.UpdateStatus(review.ID, model.StatusProcessing, "")
		h.store.UpdateProgress(review.ID, content.CompletedClauses, content.TotalClauses)
		if len(content.Clauses) > 0 {
			h.store.AppendClauses(review.ID, stampClauseIDs(content.Clauses))
		}
	case "completed":
		h.store.ReplaceClauses(review.ID, stampClauseIDs(content.Clauses))
		h.store.ApplySummary(review.ID, service.AnalysisSummary{
			ContractType:     content.ContractType,
			Summary:          content.Summary,
			RiskScore:        content.RiskScore,
			FinancialRisk:    content.FinancialRisk,
			ComplianceRisk:   content.ComplianceRisk,
			OperationalRisk:  content.OperationalRisk,
			ReputationalRisk: content.ReputationalRisk,
			ActionItems:      content.ActionItems,
			KeyDates:         content.KeyDates,
			OCRUsed:          content.OCRUsed,
		})
		h.store.UpdateProgress(review.ID, len(content.Clauses), len(content.Clauses))
		h.store.UpdateStatus(review.ID, model.StatusCompleted, "")
		logger.Info(c.Request.Context(), "analysis completed",
			"review_id", review.ID,
			"clauses", len(content.Clauses),
		)
	case "failed":
		h.store.UpdateStatus(review.ID, model.StatusFailed, content.ErrorMsg)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Callback received"})
}

// stampClauseIDs assigns ids to clause records the pipeline delivered
// without one. Clause geometry is not validated here: a clause with
// malformed rects is stored as-is and simply renders no overlay.
func stampClauseIDs(clauses []model.Clause) []model.Clause {
	for i := range clauses {
		if clauses[i].ID == "" {
			clauses[i].ID = uuid.New().String()
		}
	}
	return clauses
}
