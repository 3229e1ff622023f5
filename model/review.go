package model

import (
	"time"
)

// Review represents one contract document under analysis
type Review struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
	PDFURL   string `json:"pdf_url"`
	Status   string `json:"status"` // pending, processing, completed, failed
	Unlocked bool   `json:"unlocked"`

	// Aggregate analysis results, written by the analysis pipeline callback
	ContractType     string    `json:"contract_type,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	RiskScore        int       `json:"risk_score,omitempty"` // 0-100
	FinancialRisk    int       `json:"financial_risk,omitempty"`
	ComplianceRisk   int       `json:"compliance_risk,omitempty"`
	OperationalRisk  int       `json:"operational_risk,omitempty"`
	ReputationalRisk int       `json:"reputational_risk,omitempty"`
	ActionItems      []string  `json:"action_items,omitempty"`
	KeyDates         []KeyDate `json:"key_dates,omitempty"`
	TotalClauses     int       `json:"total_clauses,omitempty"`
	CompletedClauses int       `json:"completed_clauses,omitempty"`
	OCRUsed          bool      `json:"ocr_used,omitempty"`

	ErrorMsg  string    `json:"error_msg,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KeyDate is a notable date extracted from the contract
type KeyDate struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Type  string `json:"type"` // deadline, renewal, termination, milestone
}

// ReviewStatus constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
