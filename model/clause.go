package model

// Clause is one analyzed contract text span. Clauses are produced by the
// analysis pipeline and are immutable once ingested.
type Clause struct {
	ID         string `json:"id"`
	ReviewID   string `json:"reviewId,omitempty"`
	ClauseText string `json:"clauseText,omitempty"`
	ClauseType string `json:"clauseType,omitempty"`

	RiskLevel    string `json:"riskLevel"`    // high, medium, low
	RiskCategory string `json:"riskCategory"` // financial, compliance, operational, reputational
	Explanation  string `json:"explanation"`
	Concern      string `json:"concern,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`

	// Position on the source document. PageNumber is 0-indexed; Rects is a
	// JSON-encoded array of {x0,y0,x1,y1} in source-page units. A clause
	// without position data simply renders no overlay.
	PageNumber *int    `json:"pageNumber,omitempty"`
	Rects      string  `json:"rects,omitempty"`
	PageWidth  float64 `json:"pageWidth,omitempty"`
	PageHeight float64 `json:"pageHeight,omitempty"`

	// Sub-clause linkage: a clause with ParentHeading set is nested under
	// the top-level clause whose ClauseType equals that heading.
	ParentHeading  string `json:"parentHeading,omitempty"`
	SubClauseIndex int    `json:"subClauseIndex,omitempty"`
}

// RiskLevel constants
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// RiskCategory constants
const (
	CategoryFinancial    = "financial"
	CategoryCompliance   = "compliance"
	CategoryOperational  = "operational"
	CategoryReputational = "reputational"
)

// Source-page reference dimensions used when the pipeline omits them
// (US Letter at 72 DPI).
const (
	DefaultPageWidth  = 612.0
	DefaultPageHeight = 792.0
)

// RiskSeverity ranks risk levels for comparison: high is worst (0),
// then medium (1), then low (2). Unknown levels rank after low.
func RiskSeverity(level string) int {
	switch level {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	default:
		return 3
	}
}

// WorseRisk returns the more severe of two risk levels.
func WorseRisk(a, b string) string {
	if RiskSeverity(a) <= RiskSeverity(b) {
		return a
	}
	return b
}

// IsSubClause reports whether the clause is nested under a parent heading.
func (c *Clause) IsSubClause() bool {
	return c.ParentHeading != ""
}
