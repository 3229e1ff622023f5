package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/zakellyputra/contractpilot/config"
	"github.com/zakellyputra/contractpilot/service"
)

func setupChatHandler(t *testing.T, ledger *service.CreditLedger) *ChatHandler {
	t.Helper()
	s := miniredis.RunT(t)
	chatStore, err := service.NewChatStore(&config.RedisConfig{
		URL:           "redis://" + s.Addr(),
		ChatTTLHours:  1,
		ChatMaxLength: 50,
	})
	if err != nil {
		t.Fatalf("failed to create chat store: %v", err)
	}
	t.Cleanup(func() { chatStore.Close() })
	return NewChatHandler(chatStore, ledger)
}

func chatRouter(handler *ChatHandler, userID, plan string) *gin.Engine {
	router := gin.New()
	router.GET("/reviews/:id/clauses/:clauseId/chat", func(c *gin.Context) {
		c.Set("user_id", userID)
		if plan != "" {
			c.Set("plan", plan)
		}
		handler.GetHistory(c)
	})
	router.POST("/reviews/:id/clauses/:clauseId/chat", func(c *gin.Context) {
		c.Set("user_id", userID)
		if plan != "" {
			c.Set("plan", plan)
		}
		handler.PostMessage(c)
	})
	return router
}

func TestChatHandlerLocked(t *testing.T) {
	store := setupTestStore()
	ledger := service.NewCreditLedger()
	handler := setupChatHandler(t, ledger)

	seedClauseReview(t, store, "chat-locked", "user-ch1", false, sampleClauses())
	router := chatRouter(handler, "user-ch1", "")

	req := httptest.NewRequest("GET", "/reviews/chat-locked/clauses/c1/chat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("Expected status 402, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["placeholder"] != PlaceholderPurchase {
		t.Errorf("Expected placeholder '%s', got '%s'", PlaceholderPurchase, response["placeholder"])
	}

	body, _ := json.Marshal(ChatMessageRequest{Content: "What does this mean?"})
	req = httptest.NewRequest("POST", "/reviews/chat-locked/clauses/c1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired {
		t.Errorf("Expected status 402 on post, got %d", w.Code)
	}
}

func TestChatHandlerPostAndHistory(t *testing.T) {
	store := setupTestStore()
	ledger := service.NewCreditLedger()
	handler := setupChatHandler(t, ledger)

	seedClauseReview(t, store, "chat-open", "user-ch2", true, sampleClauses())
	router := chatRouter(handler, "user-ch2", "")

	body, _ := json.Marshal(ChatMessageRequest{Content: "Is the notice period negotiable?"})
	req := httptest.NewRequest("POST", "/reviews/chat-open/clauses/c1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Messages []service.ChatMessage `json:"messages"`
		Status   string                `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "pending" {
		t.Errorf("Expected status 'pending', got '%s'", response.Status)
	}
	if len(response.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(response.Messages))
	}
	if response.Messages[0].Role != "user" {
		t.Errorf("Expected role 'user', got '%s'", response.Messages[0].Role)
	}

	// History returns the transcript
	req = httptest.NewRequest("GET", "/reviews/chat-open/clauses/c1/chat", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Messages) != 1 {
		t.Errorf("Expected 1 message in history, got %d", len(response.Messages))
	}

	// Transcripts are per clause
	req = httptest.NewRequest("GET", "/reviews/chat-open/clauses/c2/chat", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Messages) != 0 {
		t.Errorf("Expected empty transcript for other clause, got %d messages", len(response.Messages))
	}
}

func TestChatHandlerProPlanBypass(t *testing.T) {
	store := setupTestStore()
	ledger := service.NewCreditLedger()
	handler := setupChatHandler(t, ledger)

	seedClauseReview(t, store, "chat-pro", "user-ch3", false, sampleClauses())
	router := chatRouter(handler, "user-ch3", "pro")

	req := httptest.NewRequest("GET", "/reviews/chat-pro/clauses/c1/chat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected pro plan to bypass lock, got %d", w.Code)
	}
}

func TestChatHandlerEmptyMessage(t *testing.T) {
	store := setupTestStore()
	ledger := service.NewCreditLedger()
	handler := setupChatHandler(t, ledger)

	seedClauseReview(t, store, "chat-empty", "user-ch4", true, sampleClauses())
	router := chatRouter(handler, "user-ch4", "")

	req := httptest.NewRequest("POST", "/reviews/chat-empty/clauses/c1/chat", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty message, got %d", w.Code)
	}
}

func TestChatHandlerNotFound(t *testing.T) {
	handler := setupChatHandler(t, service.NewCreditLedger())
	router := chatRouter(handler, "user-ch5", "")

	req := httptest.NewRequest("GET", "/reviews/no-such/clauses/c1/chat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
