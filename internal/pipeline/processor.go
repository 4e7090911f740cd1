// Package pipeline 实现了聊天事件的后台分析处理。
package pipeline

import (
	"context"
	"fmt"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"
	"city-pet-go/pkg/es"
	"city-pet-go/pkg/log"
	"city-pet-go/pkg/tasks"

	"github.com/go-redis/redis/v8"
)

// Processor 消费 Kafka 聊天事件：写入 Elasticsearch 分析索引并维护 Redis 计数器。
// 它实现了 kafka.EventProcessor 接口。
type Processor struct {
	esCfg       config.ElasticsearchConfig
	redisClient *redis.Client
}

// NewProcessor 创建一个新的分析处理器。
func NewProcessor(esCfg config.ElasticsearchConfig, redisClient *redis.Client) *Processor {
	return &Processor{
		esCfg:       esCfg,
		redisClient: redisClient,
	}
}

// Process 处理一条聊天事件。
// 计数器失败只记日志；索引写入失败返回错误，交由消费者的重试机制处理。
func (p *Processor) Process(ctx context.Context, event tasks.ChatEventTask) error {
	// 1. 维护意图与来源计数器
	if p.redisClient != nil {
		intentKey := fmt.Sprintf("chatbot:stats:intent:%s", event.Intent)
		if err := p.redisClient.Incr(ctx, intentKey).Err(); err != nil {
			log.Errorf("[Processor] 更新意图计数失败: %v", err)
		}
		sourceKey := fmt.Sprintf("chatbot:stats:source:%s", event.Source)
		if err := p.redisClient.Incr(ctx, sourceKey).Err(); err != nil {
			log.Errorf("[Processor] 更新来源计数失败: %v", err)
		}
	}

	// 2. 写入分析索引
	if es.ESClient == nil {
		return nil
	}
	doc := model.ChatEventDocument{
		SessionID:      event.SessionID,
		Intent:         event.Intent,
		EmergencyLevel: event.EmergencyLevel,
		Source:         event.Source,
		ResponseTimeMs: event.ResponseTimeMs,
		OccurredAt:     event.OccurredAt,
	}
	if err := es.IndexChatEvent(ctx, p.esCfg.AnalyticsIndex, doc); err != nil {
		return fmt.Errorf("failed to index chat event: %w", err)
	}

	log.Debugf("[Processor] 聊天事件已入库: session=%s, intent=%s, source=%s",
		event.SessionID, event.Intent, event.Source)
	return nil
}
