package service

import (
	"context"
	"strings"

	"city-pet-go/internal/model"
	"city-pet-go/internal/repository"
	"city-pet-go/pkg/log"
)

// FAQMatcher 在启用中的 FAQ 集合里为一条消息寻找最佳匹配。
// 四层策略按序尝试，首个命中的层直接返回，层与层之间不做打分比较：
//  1. 关键词包含
//  2. 问题短语包含
//  3. 词重叠率启发式
//  4. Elasticsearch 全文检索兜底（尽力而为，不可用时静默放弃）
//
// 所有层都在按 priority 降序、created_at 降序排好的候选集上迭代，
// 同层多条命中时优先级高者先被扫描到，与 /faqs 列表接口的排序一致。
type FAQMatcher struct {
	faqRepo repository.FAQRepository
}

// NewFAQMatcher 创建一个新的 FAQMatcher 实例。
func NewFAQMatcher(faqRepo repository.FAQRepository) *FAQMatcher {
	return &FAQMatcher{faqRepo: faqRepo}
}

// Match 返回最佳匹配的 FAQ；四层全部未命中时返回 (nil, nil)。
// 只有候选集加载失败才返回错误，由编排器降级为无匹配。
func (m *FAQMatcher) Match(ctx context.Context, message string) (*model.FAQ, error) {
	faqs, err := m.faqRepo.FindActive()
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(message)

	// 第一层：关键词包含
	for i := range faqs {
		for _, keyword := range faqs[i].Keywords {
			kw := strings.ToLower(strings.TrimSpace(keyword))
			if kw != "" && strings.Contains(text, kw) {
				return &faqs[i], nil
			}
		}
	}

	// 第二层：问题短语包含
	for i := range faqs {
		for _, fragment := range splitPhrases(faqs[i].Question) {
			if strings.Contains(text, fragment) {
				return &faqs[i], nil
			}
		}
	}

	// 第三层：词重叠率启发式
	for i := range faqs {
		if wordOverlapRatio(faqs[i].Question, text) > 0.5 {
			return &faqs[i], nil
		}
	}

	// 第四层：全文检索兜底
	faq, err := m.faqRepo.SearchText(ctx, message)
	if err != nil {
		// 检索不可用不算失败，按无匹配处理
		log.Warnf("[FAQMatcher] 全文检索兜底不可用: %v", err)
		return nil, nil
	}
	return faq, nil
}

// splitPhrases 把 FAQ 问题按标点切成短语片段，保留长度大于 5 的部分。
func splitPhrases(question string) []string {
	raw := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		switch r {
		case '.', ',', '?', '!', ';':
			return true
		}
		return false
	})

	fragments := make([]string, 0, len(raw))
	for _, f := range raw {
		f = strings.TrimSpace(f)
		if len(f) > 5 {
			fragments = append(fragments, f)
		}
	}
	return fragments
}

// wordOverlapRatio 统计问题中长度大于 3 的词有多大比例作为子串出现在消息里。
func wordOverlapRatio(question, text string) float64 {
	words := strings.Fields(strings.ToLower(question))
	total := 0
	matched := 0
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		total++
		if strings.Contains(text, w) {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}
