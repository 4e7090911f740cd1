// Package model 包含了应用的数据模型定义。
package model

import "time"

// FAQ 对应于数据库中的 'faqs' 表。
// 由管理员在后台维护，聊天管道只读；下线通过 IsActive 软停用。
type FAQ struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Question 是标准问法，短语匹配层与全文检索层都会用到它。
	Question string `gorm:"type:text;not null" json:"question"`
	// Answer 是返回给用户的答案文本。
	Answer string `gorm:"type:text;not null" json:"answer"`
	// Keywords 是有序的关键词列表，关键词匹配层按此顺序扫描。
	Keywords []string `gorm:"type:json;serializer:json" json:"keywords"`
	// Category 用于意图分类的类目映射，例如 "appointment"、"pricing"。
	Category string `gorm:"type:varchar(64);index" json:"category"`
	// Priority 越大越优先，匹配与列表接口均按其降序排列。
	Priority  int       `gorm:"default:0;index" json:"priority"`
	IsActive  bool      `gorm:"default:true;index" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (FAQ) TableName() string {
	return "faqs"
}

// EsFAQDocument 代表镜像到 Elasticsearch 的 FAQ 文档，供全文检索兜底层使用。
type EsFAQDocument struct {
	FAQID    uint     `json:"faq_id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
	Priority int      `json:"priority"`
	IsActive bool     `json:"is_active"`
}
