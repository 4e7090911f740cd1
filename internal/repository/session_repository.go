package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"city-pet-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// SessionRepository 定义了会话近期消息缓存的操作接口。
// 缓存只服务于 LLM 的上下文拼装，完整历史以 MySQL 中的 ChatLog 为准。
type SessionRepository interface {
	GetRecentMessages(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	AppendTurn(ctx context.Context, sessionID, question, answer string) error
}

type redisSessionRepository struct {
	redisClient *redis.Client
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(redisClient *redis.Client) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient}
}

// GetRecentMessages 从 Redis 获取一个会话的近期消息。
func (r *redisSessionRepository) GetRecentMessages(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	key := fmt.Sprintf("chatbot:session:%s", sessionID)
	jsonData, err := r.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}, nil // No history yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session history: %w", err)
	}
	var messages []model.ChatMessage
	if err := json.Unmarshal([]byte(jsonData), &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session history: %w", err)
	}
	return messages, nil
}

// AppendTurn 在 Redis 中为一个会话追加一问一答。
func (r *redisSessionRepository) AppendTurn(ctx context.Context, sessionID, question, answer string) error {
	messages, err := r.GetRecentMessages(ctx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now()
	messages = append(messages,
		model.ChatMessage{Role: "user", Content: question, Timestamp: now},
		model.ChatMessage{Role: "assistant", Content: answer, Timestamp: now},
	)

	// 保留最近 20 条
	if len(messages) > 20 {
		messages = messages[len(messages)-20:]
	}

	jsonData, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal session history: %w", err)
	}

	key := fmt.Sprintf("chatbot:session:%s", sessionID)
	if err := r.redisClient.Set(ctx, key, jsonData, 7*24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to set session history: %w", err)
	}
	return nil
}
