package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"
	"city-pet-go/internal/repository"
	"city-pet-go/pkg/log"
	"city-pet-go/pkg/storage"

	"github.com/go-redis/redis/v8"
)

// StatsOverview 汇总聊天日志的统计视图。
type StatsOverview struct {
	TotalMessages    int64            `json:"totalMessages"`
	BySource         map[string]int64 `json:"bySource"`
	ByEmergencyLevel map[string]int64 `json:"byEmergencyLevel"`
	// ByIntent 来自分析管道维护的 Redis 计数器，可能落后于数据库。
	ByIntent map[string]int64 `json:"byIntent"`
}

// StatsService 定义了管理后台的统计与导出操作。
type StatsService interface {
	GetOverview(ctx context.Context) (*StatsOverview, error)
	ListChatLogs(page, pageSize int) ([]model.ChatLog, int64, error)
	// ExportChatLogs 把聊天日志导出为 JSON 对象写入 MinIO，返回预签名下载地址。
	ExportChatLogs(ctx context.Context) (string, error)
}

type statsService struct {
	chatLogRepo repository.ChatLogRepository
	redisClient *redis.Client
	minioCfg    config.MinIOConfig
}

// NewStatsService 创建一个新的 StatsService 实例。
func NewStatsService(chatLogRepo repository.ChatLogRepository, redisClient *redis.Client, minioCfg config.MinIOConfig) StatsService {
	return &statsService{
		chatLogRepo: chatLogRepo,
		redisClient: redisClient,
		minioCfg:    minioCfg,
	}
}

// GetOverview 汇总消息总量、来源分布、应急等级分布与意图计数。
func (s *statsService) GetOverview(ctx context.Context) (*StatsOverview, error) {
	bySource, err := s.chatLogRepo.CountBySource()
	if err != nil {
		return nil, err
	}
	byLevel, err := s.chatLogRepo.CountByEmergencyLevel()
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range bySource {
		total += count
	}

	overview := &StatsOverview{
		TotalMessages:    total,
		BySource:         bySource,
		ByEmergencyLevel: byLevel,
		ByIntent:         s.intentCounters(ctx),
	}
	return overview, nil
}

// intentCounters 读取分析管道维护的意图计数，失败时返回空表。
func (s *statsService) intentCounters(ctx context.Context) map[string]int64 {
	counters := make(map[string]int64)
	if s.redisClient == nil {
		return counters
	}

	keys, err := s.redisClient.Keys(ctx, "chatbot:stats:intent:*").Result()
	if err != nil {
		log.Errorf("[StatsService] 读取意图计数键失败: %v", err)
		return counters
	}
	for _, key := range keys {
		val, err := s.redisClient.Get(ctx, key).Int64()
		if err != nil {
			continue
		}
		intent := strings.TrimPrefix(key, "chatbot:stats:intent:")
		counters[intent] = val
	}
	return counters
}

// ListChatLogs 分页返回聊天日志。
func (s *statsService) ListChatLogs(page, pageSize int) ([]model.ChatLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return s.chatLogRepo.FindWithPagination((page-1)*pageSize, pageSize)
}

// 单次导出的日志上限。
const exportLimit = 10000

// ExportChatLogs 导出最近的聊天日志并返回 24 小时有效的下载地址。
func (s *statsService) ExportChatLogs(ctx context.Context) (string, error) {
	if storage.MinioClient == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	entries, _, err := s.chatLogRepo.FindWithPagination(0, exportLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load chat logs: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat logs: %w", err)
	}

	objectName := fmt.Sprintf("chatlogs-%s.json", time.Now().Format("20060102-150405"))
	if err := storage.UploadObject(ctx, s.minioCfg.BucketName, objectName, data, "application/json"); err != nil {
		return "", err
	}

	url, err := storage.GetPresignedURL(s.minioCfg.BucketName, objectName, 24*time.Hour)
	if err != nil {
		return "", err
	}

	log.Infof("[StatsService] 导出 %d 条聊天日志到对象 '%s'", len(entries), objectName)
	return url, nil
}
