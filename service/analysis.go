package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zakellyputra/contractpilot/config"
)

// AnalysisService talks to the external AI analysis pipeline. The pipeline
// fetches the contract from the presigned URL, analyzes it, and delivers
// clause records and aggregates back through the callback endpoint.
type AnalysisService struct {
	config     *config.AnalysisConfig
	httpClient *http.Client
}

// AnalysisTaskRequest represents the request to start an analysis run
type AnalysisTaskRequest struct {
	PDFURL   string `json:"pdf_url"`
	ReviewID string `json:"review_id"`
	Callback string `json:"callback,omitempty"`
	Seed     string `json:"seed,omitempty"`
}

// AnalysisTaskResponse represents the response from task submission
type AnalysisTaskResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
}

func NewAnalysisService(cfg *config.AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SubmitReview asks the pipeline to analyze the document behind pdfURL.
// Results arrive asynchronously via the callback.
func (s *AnalysisService) SubmitReview(pdfURL, reviewID string) (*AnalysisTaskResponse, error) {
	reqBody := AnalysisTaskRequest{
		PDFURL:   pdfURL,
		ReviewID: reviewID,
	}

	if s.config.CallbackURL != "" {
		reqBody.Callback = s.config.CallbackURL
		reqBody.Seed = s.config.Seed
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.config.APIURL+"/analyze", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result AnalysisTaskResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if result.Code != 0 {
		return nil, fmt.Errorf("analysis API error: %s", result.Message)
	}

	return &result, nil
}

// VerifyCallback verifies the callback checksum.
// Checksum = SHA256(reviewID + seed + content)
func (s *AnalysisService) VerifyCallback(checksum, content, reviewID string) bool {
	data := reviewID + s.config.Seed + content
	hash := sha256.Sum256([]byte(data))
	expected := hex.EncodeToString(hash[:])
	return checksum == expected
}
