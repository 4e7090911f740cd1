package model

import "time"

// ChatMessage 代表存储在 Redis 中的单条会话消息。
type ChatMessage struct {
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactInfo 在应急响应中附带医院的联系方式。
type ContactInfo struct {
	Phone          string `json:"phone"`
	EmergencyPhone string `json:"emergencyPhone"`
	Address        string `json:"address"`
}

// ChatResult 是消息编排器每个终态产出的响应对象。
type ChatResult struct {
	Response       string       `json:"response"`
	EmergencyLevel string       `json:"emergencyLevel"`
	Intent         string       `json:"intent"`
	Source         string       `json:"source"`
	SessionID      string       `json:"sessionId"`
	MessageID      uint         `json:"messageId,omitempty"`
	FAQID          uint         `json:"faqId,omitempty"`
	ContactInfo    *ContactInfo `json:"contactInfo,omitempty"`
	// IsGenerated 标记响应为兜底生成而非检索所得。
	IsGenerated bool `json:"isGenerated,omitempty"`
}

// ChatLogDTO 是历史接口返回给前端的单条记录结构。
type ChatLogDTO struct {
	MessageID      uint      `json:"messageId"`
	UserMessage    string    `json:"userMessage"`
	BotResponse    string    `json:"botResponse"`
	EmergencyLevel string    `json:"emergencyLevel"`
	Intent         string    `json:"intent"`
	Source         string    `json:"source"`
	FeedbackRating *int      `json:"feedbackRating,omitempty"`
	CreatedAt      LocalTime `json:"createdAt"`
}

// ChatEventDocument 代表写入 Elasticsearch 分析索引的聊天事件。
type ChatEventDocument struct {
	SessionID      string    `json:"session_id"`
	Intent         string    `json:"intent"`
	EmergencyLevel string    `json:"emergency_level"`
	Source         string    `json:"source"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}
