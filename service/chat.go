package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zakellyputra/contractpilot/config"
)

// ChatMessage is one turn of the clause inspector conversation.
type ChatMessage struct {
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatStore persists inspector chat transcripts per (review, clause) in
// Redis lists. Answering is the external AI pipeline's job; this store
// only keeps the conversation.
type ChatStore struct {
	client    *redis.Client
	ttl       time.Duration
	maxLength int
}

// NewChatStore connects to Redis and verifies the connection.
func NewChatStore(cfg *config.RedisConfig) (*ChatStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewChatStoreWithClient(client, cfg), nil
}

// NewChatStoreWithClient builds a store from an existing Redis client.
func NewChatStoreWithClient(client *redis.Client, cfg *config.RedisConfig) *ChatStore {
	ttl := time.Duration(cfg.ChatTTLHours) * time.Hour
	maxLength := cfg.ChatMaxLength
	if maxLength <= 0 {
		maxLength = 200
	}
	return &ChatStore{
		client:    client,
		ttl:       ttl,
		maxLength: maxLength,
	}
}

func (s *ChatStore) key(reviewID, clauseID string) string {
	return "chat:" + reviewID + ":" + clauseID
}

// Append adds a message to the transcript, trimming it to the configured
// maximum length and refreshing the TTL.
func (s *ChatStore) Append(ctx context.Context, reviewID, clauseID string, msg ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}

	key := s.key(reviewID, clauseID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, int64(-s.maxLength), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}

	return nil
}

// History returns the transcript in chronological order. A conversation
// that never happened is an empty transcript, not an error.
func (s *ChatStore) History(ctx context.Context, reviewID, clauseID string) ([]ChatMessage, error) {
	raw, err := s.client.LRange(ctx, s.key(reviewID, clauseID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	messages := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Ping checks the Redis connection.
func (s *ChatStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (s *ChatStore) Close() error {
	return s.client.Close()
}
