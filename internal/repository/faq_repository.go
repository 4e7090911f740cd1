// Package repository 提供了数据访问层的实现。
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"city-pet-go/internal/model"
	"city-pet-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"
)

// FAQRepository 接口定义了 FAQ 记录的数据操作方法。
// 匹配管道只使用读方法；写方法供管理后台调用。
type FAQRepository interface {
	Create(faq *model.FAQ) error
	Update(faq *model.FAQ) error
	Delete(id uint) error
	FindByID(id uint) (*model.FAQ, error)
	FindAll() ([]model.FAQ, error)
	// FindActive 返回启用中的 FAQ，按 priority 降序、created_at 降序排列。
	// 匹配各层与 /faqs 列表接口共用该排序，保证匹配结果确定且与列表一致。
	FindActive() ([]model.FAQ, error)
	// SearchText 通过 Elasticsearch 对启用中的 FAQ 做全文检索，返回得分最高的一条。
	// 无命中时返回 (nil, nil)；检索不可用时返回错误，由调用方降级处理。
	SearchText(ctx context.Context, query string) (*model.FAQ, error)
}

type faqRepository struct {
	db       *gorm.DB
	esClient *elasticsearch.Client
	esIndex  string
}

// NewFAQRepository 创建一个新的 FAQRepository 实例。
// esClient 可以为 nil，此时全文检索层直接视为无命中。
func NewFAQRepository(db *gorm.DB, esClient *elasticsearch.Client, esIndex string) FAQRepository {
	return &faqRepository{db: db, esClient: esClient, esIndex: esIndex}
}

// Create 在数据库中插入一条新的 FAQ 记录。
func (r *faqRepository) Create(faq *model.FAQ) error {
	return r.db.Create(faq).Error
}

// Update 更新数据库中一条已存在的 FAQ 记录。
func (r *faqRepository) Update(faq *model.FAQ) error {
	return r.db.Save(faq).Error
}

// Delete 根据 ID 从数据库中删除一条 FAQ 记录。
func (r *faqRepository) Delete(id uint) error {
	return r.db.Delete(&model.FAQ{}, id).Error
}

// FindByID 根据 ID 查找一条 FAQ 记录。
func (r *faqRepository) FindByID(id uint) (*model.FAQ, error) {
	var faq model.FAQ
	err := r.db.First(&faq, id).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// FindAll 检索所有 FAQ 记录（含停用），供管理后台使用。
func (r *faqRepository) FindAll() ([]model.FAQ, error) {
	var faqs []model.FAQ
	err := r.db.Order("priority DESC, created_at DESC").Find(&faqs).Error
	return faqs, err
}

// FindActive 检索启用中的 FAQ 记录。
func (r *faqRepository) FindActive() ([]model.FAQ, error) {
	var faqs []model.FAQ
	err := r.db.Where("is_active = ?", true).
		Order("priority DESC, created_at DESC").
		Find(&faqs).Error
	return faqs, err
}

// SearchText 在 Elasticsearch 上检索 question/answer/keywords 三个字段。
func (r *faqRepository) SearchText(ctx context.Context, query string) (*model.FAQ, error) {
	if r.esClient == nil {
		return nil, nil
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"question^2", "keywords^2", "answer"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_active": true},
				},
			},
		},
		"size": 1,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.esIndex),
		r.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.EsFAQDocument `json:"_source"`
				Score  float64             `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	if len(esResponse.Hits.Hits) == 0 {
		return nil, nil
	}

	hit := esResponse.Hits.Hits[0]
	log.Debugf("[FAQRepository] 全文检索命中 faq_id=%d, score=%.3f", hit.Source.FAQID, hit.Score)

	// 以数据库记录为准返回，避免索引与库不同步时答案陈旧
	return r.FindByID(hit.Source.FAQID)
}
