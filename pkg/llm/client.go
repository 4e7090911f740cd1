// Package llm provides a client for interacting with Large Language Models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"city-pet-go/internal/config"
	"city-pet-go/pkg/log"
)

// Client defines the interface for an LLM client.
type Client interface {
	// Available 报告客户端是否配置了 API Key；未配置时编排器应整体跳过 AI 阶段。
	Available() bool
	// Chat 以 role-based 消息调用聊天补全接口，返回完整答案文本。
	// 内部带有限次重试；全部尝试失败后把最后一次错误返回给调用方。
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type deepseekClient struct {
	cfg         config.LLMConfig
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
}

// NewClient creates a new LLM client from the given config.
func NewClient(cfg config.LLMConfig) Client {
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	maxAttempts := 2
	if cfg.MaxAttempts > 0 {
		maxAttempts = cfg.MaxAttempts
	}
	backoff := time.Second
	if cfg.RetryBackoffSeconds > 0 {
		backoff = time.Duration(cfg.RetryBackoffSeconds) * time.Second
	}
	return &deepseekClient{
		cfg: cfg,
		// 单次调用超时独立于重试退避，避免慢请求无限占用响应路径
		client:      &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// Available 在 API Key 非空时返回 true。
func (c *deepseekClient) Available() bool {
	return c.cfg.APIKey != ""
}

// Chat 调用聊天补全接口，失败时退避后重试，直到用尽尝试次数。
func (c *deepseekClient) Chat(ctx context.Context, messages []Message) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		answer, err := c.chatOnce(ctx, messages)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		log.Warnf("LLM 调用失败 (第 %d/%d 次): %v", attempt, c.maxAttempts, err)

		if attempt < c.maxAttempts {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("llm call failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *deepseekClient) chatOnce(ctx context.Context, messages []Message) (string, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   false,
	}
	// 从配置注入生成参数（若非零值）
	if c.cfg.Generation.Temperature != 0 {
		t := c.cfg.Generation.Temperature
		reqBody.Temperature = &t
	}
	if c.cfg.Generation.TopP != 0 {
		p := c.cfg.Generation.TopP
		reqBody.TopP = &p
	}
	if c.cfg.Generation.MaxTokens != 0 {
		m := c.cfg.Generation.MaxTokens
		reqBody.MaxTokens = &m
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat api returned empty choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
