package repository

import (
	"city-pet-go/internal/model"

	"gorm.io/gorm"
)

// ChatLogRepository 接口定义了聊天日志的持久化操作。
type ChatLogRepository interface {
	Create(entry *model.ChatLog) error
	FindByID(id uint) (*model.ChatLog, error)
	Update(entry *model.ChatLog) error
	// FindBySessionID 按创建时间升序返回一个会话的全部日志。
	FindBySessionID(sessionID string) ([]model.ChatLog, error)
	FindWithPagination(offset, limit int) ([]model.ChatLog, int64, error)
	CountBySource() (map[string]int64, error)
	CountByEmergencyLevel() (map[string]int64, error)
}

type chatLogRepository struct {
	db *gorm.DB
}

// NewChatLogRepository 创建一个新的 ChatLogRepository 实例。
func NewChatLogRepository(db *gorm.DB) ChatLogRepository {
	return &chatLogRepository{db: db}
}

// Create 在数据库中插入一条新的聊天日志。
func (r *chatLogRepository) Create(entry *model.ChatLog) error {
	return r.db.Create(entry).Error
}

// FindByID 根据 ID 查找一条聊天日志。
func (r *chatLogRepository) FindByID(id uint) (*model.ChatLog, error) {
	var entry model.ChatLog
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update 更新一条已存在的聊天日志（反馈提交用）。
func (r *chatLogRepository) Update(entry *model.ChatLog) error {
	return r.db.Save(entry).Error
}

// FindBySessionID 返回一个会话的按时间排序的日志。
func (r *chatLogRepository) FindBySessionID(sessionID string) ([]model.ChatLog, error) {
	var entries []model.ChatLog
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// FindWithPagination 分页检索聊天日志，按创建时间降序。
func (r *chatLogRepository) FindWithPagination(offset, limit int) ([]model.ChatLog, int64, error) {
	var entries []model.ChatLog
	var total int64
	if err := r.db.Model(&model.ChatLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

type groupCount struct {
	Key   string
	Count int64
}

// CountBySource 按 source 聚合日志条数。
func (r *chatLogRepository) CountBySource() (map[string]int64, error) {
	var rows []groupCount
	err := r.db.Model(&model.ChatLog{}).
		Select("source AS `key`, COUNT(*) AS count").
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}

// CountByEmergencyLevel 按应急等级聚合日志条数。
func (r *chatLogRepository) CountByEmergencyLevel() (map[string]int64, error) {
	var rows []groupCount
	err := r.db.Model(&model.ChatLog{}).
		Select("emergency_level AS `key`, COUNT(*) AS count").
		Group("emergency_level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}
