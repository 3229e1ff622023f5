package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zakellyputra/contractpilot/config"
)

func TestNewAnalysisService(t *testing.T) {
	cfg := &config.AnalysisConfig{
		APIURL:   "https://analysis.test",
		APIToken: "test-token",
	}

	svc := NewAnalysisService(cfg)
	if svc == nil {
		t.Fatal("Expected non-nil service")
	}
	if svc.config != cfg {
		t.Error("Expected config to be set")
	}
	if svc.httpClient == nil {
		t.Error("Expected httpClient to be set")
	}
}

func TestAnalysisServiceSubmitReview(t *testing.T) {
	// Create mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/analyze" {
			t.Errorf("Expected /analyze, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Error("Expected Authorization header")
		}

		var req AnalysisTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.ReviewID != "rev-1" {
			t.Errorf("Expected review id rev-1, got %s", req.ReviewID)
		}
		if req.Callback != "https://backend.test/api/analysis/callback" {
			t.Errorf("Expected callback url in request, got %s", req.Callback)
		}

		// Return success response
		response := AnalysisTaskResponse{
			Code:    0,
			Message: "success",
		}
		response.Data.TaskID = "task-123"

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	cfg := &config.AnalysisConfig{
		APIURL:      server.URL,
		APIToken:    "test-token",
		CallbackURL: "https://backend.test/api/analysis/callback",
		Seed:        "seed",
	}

	svc := NewAnalysisService(cfg)
	resp, err := svc.SubmitReview("https://minio.test/doc.pdf", "rev-1")
	if err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}
	if resp.Data.TaskID != "task-123" {
		t.Errorf("Expected task-123, got %s", resp.Data.TaskID)
	}
}

func TestAnalysisServiceSubmitReviewAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AnalysisTaskResponse{Code: 1, Message: "quota exceeded"})
	}))
	defer server.Close()

	svc := NewAnalysisService(&config.AnalysisConfig{APIURL: server.URL, APIToken: "t"})
	if _, err := svc.SubmitReview("https://minio.test/doc.pdf", "rev-1"); err == nil {
		t.Error("Expected error for non-zero API code")
	}
}

func TestAnalysisServiceSubmitReviewBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	svc := NewAnalysisService(&config.AnalysisConfig{APIURL: server.URL, APIToken: "t"})
	if _, err := svc.SubmitReview("https://minio.test/doc.pdf", "rev-1"); err == nil {
		t.Error("Expected error for malformed response body")
	}
}

func TestAnalysisServiceVerifyCallback(t *testing.T) {
	svc := NewAnalysisService(&config.AnalysisConfig{Seed: "secret-seed"})

	content := `{"review_id":"rev-1","status":"completed"}`
	sum := sha256.Sum256([]byte("rev-1" + "secret-seed" + content))
	checksum := hex.EncodeToString(sum[:])

	if !svc.VerifyCallback(checksum, content, "rev-1") {
		t.Error("Expected valid checksum to verify")
	}
	if svc.VerifyCallback("bogus", content, "rev-1") {
		t.Error("Expected invalid checksum to fail")
	}
	if svc.VerifyCallback(checksum, content, "rev-2") {
		t.Error("Expected checksum bound to review id")
	}
}
