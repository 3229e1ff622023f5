package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zakellyputra/contractpilot/middleware"
	"github.com/zakellyputra/contractpilot/model"
	"github.com/zakellyputra/contractpilot/pkg/logger"
	"github.com/zakellyputra/contractpilot/service"
)

type ReviewHandler struct {
	minioService    *service.MinioService
	analysisService *service.AnalysisService
	store           *service.ReviewStore
	ledger          *service.CreditLedger
}

func NewReviewHandler(minioSvc *service.MinioService, analysisSvc *service.AnalysisService, ledger *service.CreditLedger) *ReviewHandler {
	return &ReviewHandler{
		minioService:    minioSvc,
		analysisService: analysisSvc,
		store:           service.GetReviewStore(),
		ledger:          ledger,
	}
}

// Submit handles contract document upload and starts a review
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// Get file from form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	// Contracts arrive as PDFs; everything else is rejected up front
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "application/pdf"
	}

	// Generate unique ID and object name
	reviewID := uuid.New().String()
	objectName := service.ObjectName(userID, reviewID, header.Filename)

	// Upload to MinIO
	err = h.minioService.UploadDocument(c.Request.Context(), objectName, file, header.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}

	// Presigned URL for the analysis pipeline and the document viewer
	pdfURL, err := h.minioService.GetPresignedURL(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	// Create review record
	review := &model.Review{
		ID:        reviewID,
		UserID:    userID,
		Filename:  header.Filename,
		PDFURL:    pdfURL,
		Status:    model.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	h.store.Save(review)

	// Hand off to the analysis pipeline; results arrive via callback
	go h.startAnalysis(review, pdfURL)

	c.JSON(http.StatusOK, gin.H{
		"id":       reviewID,
		"filename": header.Filename,
		"pdf_url":  pdfURL,
		"status":   model.StatusPending,
	})
}

// startAnalysis submits the document to the analysis pipeline
func (h *ReviewHandler) startAnalysis(review *model.Review, pdfURL string) {
	h.store.UpdateStatus(review.ID, model.StatusProcessing, "")

	if _, err := h.analysisService.SubmitReview(pdfURL, review.ID); err != nil {
		logger.Error(context.Background(), "failed to submit review for analysis", "review_id", review.ID, "error", err)
		h.store.UpdateStatus(review.ID, model.StatusFailed, err.Error())
	}
}

// List returns all reviews for the current user
func (h *ReviewHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reviews := h.store.GetByUser(userID)

	result := make([]gin.H, len(reviews))
	for i, review := range reviews {
		result[i] = gin.H{
			"id":         review.ID,
			"filename":   review.Filename,
			"status":     review.Status,
			"unlocked":   review.Unlocked,
			"risk_score": review.RiskScore,
			"created_at": review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"updated_at": review.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, gin.H{"reviews": result})
}

// Get returns a single review. Premium fields (summary, action items, key
// dates) are withheld while the review is locked; the response then says
// which placeholder to render instead.
func (h *ReviewHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	review := h.store.GetOwned(id, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	base := gin.H{
		"id":                review.ID,
		"filename":          review.Filename,
		"pdf_url":           review.PDFURL,
		"status":            review.Status,
		"unlocked":          review.Unlocked,
		"contract_type":     review.ContractType,
		"risk_score":        review.RiskScore,
		"financial_risk":    review.FinancialRisk,
		"compliance_risk":   review.ComplianceRisk,
		"operational_risk":  review.OperationalRisk,
		"reputational_risk": review.ReputationalRisk,
		"total_clauses":     review.TotalClauses,
		"completed_clauses": review.CompletedClauses,
		"ocr_used":          review.OCRUsed,
		"created_at":        review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updated_at":        review.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if hasPremiumAccess(c, review) {
		base["locked"] = false
		base["summary"] = review.Summary
		base["action_items"] = review.ActionItems
		base["key_dates"] = review.KeyDates
	} else {
		base["locked"] = true
		base["placeholder"] = placeholderFor(h.ledger.GetBalance(userID))
	}

	c.JSON(http.StatusOK, base)
}

// GetStatus returns the processing status of a review
func (h *ReviewHandler) GetStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	review := h.store.GetOwned(id, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                review.ID,
		"status":            review.Status,
		"completed_clauses": review.CompletedClauses,
		"total_clauses":     review.TotalClauses,
		"error_msg":         review.ErrorMsg,
	})
}

// Delete deletes a review and its stored document
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	review := h.store.GetOwned(id, userID)
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	if h.minioService != nil {
		objectName := service.ObjectName(userID, review.ID, review.Filename)
		if err := h.minioService.DeleteDocument(c.Request.Context(), objectName); err != nil {
			logger.Warn(c.Request.Context(), "failed to delete document", "review_id", id, "error", err)
		}
	}

	h.store.Delete(id)

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
