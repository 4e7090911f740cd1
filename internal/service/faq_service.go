package service

import (
	"context"
	"errors"
	"strings"

	"city-pet-go/internal/model"
	"city-pet-go/internal/repository"
	"city-pet-go/pkg/es"
	"city-pet-go/pkg/log"
)

// FAQService 定义了 FAQ 管理与查询的业务操作。
type FAQService interface {
	// ListActive 返回启用中的 FAQ，按 priority 降序、创建时间降序。
	ListActive() ([]model.FAQ, error)
	// ListAll 返回全部 FAQ（含停用），供管理后台使用。
	ListAll() ([]model.FAQ, error)
	Create(ctx context.Context, faq *model.FAQ) error
	Update(ctx context.Context, faq *model.FAQ) error
	Delete(ctx context.Context, id uint) error
}

type faqService struct {
	faqRepo repository.FAQRepository
	esIndex string
}

// NewFAQService 创建一个新的 FAQService 实例。
func NewFAQService(faqRepo repository.FAQRepository, esIndex string) FAQService {
	return &faqService{faqRepo: faqRepo, esIndex: esIndex}
}

// ListActive 返回启用中的 FAQ 列表。
func (s *faqService) ListActive() ([]model.FAQ, error) {
	return s.faqRepo.FindActive()
}

// ListAll 返回全部 FAQ 列表。
func (s *faqService) ListAll() ([]model.FAQ, error) {
	return s.faqRepo.FindAll()
}

// Create 新增一条 FAQ 并镜像到 Elasticsearch。
func (s *faqService) Create(ctx context.Context, faq *model.FAQ) error {
	if strings.TrimSpace(faq.Question) == "" || strings.TrimSpace(faq.Answer) == "" {
		return errors.New("question and answer are required")
	}

	if err := s.faqRepo.Create(faq); err != nil {
		return err
	}
	s.mirrorToES(ctx, faq)
	return nil
}

// Update 更新一条 FAQ 并刷新 Elasticsearch 镜像。
func (s *faqService) Update(ctx context.Context, faq *model.FAQ) error {
	if _, err := s.faqRepo.FindByID(faq.ID); err != nil {
		return err
	}
	if err := s.faqRepo.Update(faq); err != nil {
		return err
	}
	s.mirrorToES(ctx, faq)
	return nil
}

// Delete 删除一条 FAQ 并移除 Elasticsearch 镜像。
func (s *faqService) Delete(ctx context.Context, id uint) error {
	if err := s.faqRepo.Delete(id); err != nil {
		return err
	}
	if es.ESClient != nil {
		if err := es.DeleteFAQDocument(ctx, s.esIndex, id); err != nil {
			// 镜像清理失败不阻塞删除，停用过滤会兜住陈旧文档
			log.Errorf("[FAQService] 删除 FAQ 的 ES 镜像失败: id=%d, %v", id, err)
		}
	}
	return nil
}

// mirrorToES 把 FAQ 写入全文检索索引，失败只记日志。
func (s *faqService) mirrorToES(ctx context.Context, faq *model.FAQ) {
	if es.ESClient == nil {
		return
	}
	doc := model.EsFAQDocument{
		FAQID:    faq.ID,
		Question: faq.Question,
		Answer:   faq.Answer,
		Keywords: faq.Keywords,
		Category: faq.Category,
		Priority: faq.Priority,
		IsActive: faq.IsActive,
	}
	if err := es.IndexFAQDocument(ctx, s.esIndex, doc); err != nil {
		log.Errorf("[FAQService] 镜像 FAQ 到 ES 失败: id=%d, %v", faq.ID, err)
	}
}
