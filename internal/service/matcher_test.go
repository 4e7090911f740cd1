package service

import (
	"context"
	"errors"
	"testing"

	"city-pet-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFAQRepo 是测试用的内存 FAQRepository 实现。
type fakeFAQRepo struct {
	faqs          []model.FAQ
	findActiveErr error
	searchResult  *model.FAQ
	searchErr     error
	searchCalled  bool
}

func (f *fakeFAQRepo) Create(faq *model.FAQ) error { return nil }
func (f *fakeFAQRepo) Update(faq *model.FAQ) error { return nil }
func (f *fakeFAQRepo) Delete(id uint) error        { return nil }

func (f *fakeFAQRepo) FindByID(id uint) (*model.FAQ, error) {
	for i := range f.faqs {
		if f.faqs[i].ID == id {
			return &f.faqs[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeFAQRepo) FindAll() ([]model.FAQ, error) { return f.faqs, nil }

func (f *fakeFAQRepo) FindActive() ([]model.FAQ, error) {
	if f.findActiveErr != nil {
		return nil, f.findActiveErr
	}
	return f.faqs, nil
}

func (f *fakeFAQRepo) SearchText(ctx context.Context, query string) (*model.FAQ, error) {
	f.searchCalled = true
	return f.searchResult, f.searchErr
}

func sampleFAQs() []model.FAQ {
	// 已按 priority 降序排好，模拟 FindActive 的返回顺序
	return []model.FAQ{
		{ID: 1, Question: "What are your opening hours?", Answer: "We are open 8am-8pm.", Keywords: []string{"hours", "open"}, Category: "hospital", Priority: 10, IsActive: true},
		{ID: 2, Question: "How much does a vaccination cost?", Answer: "Vaccinations start at $40.", Keywords: []string{"vaccination", "vaccine"}, Category: "pricing", Priority: 5, IsActive: true},
		{ID: 3, Question: "Do you offer grooming services?", Answer: "Yes, grooming is available on weekdays.", Keywords: []string{"grooming"}, Category: "services", Priority: 1, IsActive: true},
	}
}

func TestFAQMatcher_KeywordMatch(t *testing.T) {
	repo := &fakeFAQRepo{faqs: sampleFAQs()}
	matcher := NewFAQMatcher(repo)

	faq, err := matcher.Match(context.Background(), "when are you OPEN today?")
	require.NoError(t, err)
	require.NotNil(t, faq)
	assert.Equal(t, uint(1), faq.ID)
	// 第一层命中后不应触发检索兜底
	assert.False(t, repo.searchCalled)
}

func TestFAQMatcher_PhraseMatch(t *testing.T) {
	repo := &fakeFAQRepo{faqs: []model.FAQ{
		{ID: 7, Question: "Can I bring my own food, or is it provided?", Answer: "Food is provided.", Keywords: []string{}, IsActive: true},
	}}
	matcher := NewFAQMatcher(repo)

	// 消息包含问题的一个短语片段 "can i bring my own food"
	faq, err := matcher.Match(context.Background(), "hi, can i bring my own food for my dog?")
	require.NoError(t, err)
	require.NotNil(t, faq)
	assert.Equal(t, uint(7), faq.ID)
}

func TestFAQMatcher_WordOverlapMatch(t *testing.T) {
	repo := &fakeFAQRepo{faqs: []model.FAQ{
		{ID: 9, Question: "What vaccinations does my puppy need?", Answer: "Core vaccines plus rabies.", Keywords: []string{}, IsActive: true},
	}}
	matcher := NewFAQMatcher(repo)

	// 关键词层和短语层都不命中，但长词重叠率超过一半
	faq, err := matcher.Match(context.Background(), "so what vaccinations does a young puppy require")
	require.NoError(t, err)
	require.NotNil(t, faq)
	assert.Equal(t, uint(9), faq.ID)
}

func TestFAQMatcher_PriorityOrderBreaksTies(t *testing.T) {
	// 两条 FAQ 都含关键词 "hours"，高优先级在前
	repo := &fakeFAQRepo{faqs: []model.FAQ{
		{ID: 2, Question: "Holiday hours?", Answer: "Closed on holidays.", Keywords: []string{"hours"}, Priority: 20, IsActive: true},
		{ID: 1, Question: "Regular hours?", Answer: "Open 8am-8pm.", Keywords: []string{"hours"}, Priority: 10, IsActive: true},
	}}
	matcher := NewFAQMatcher(repo)

	faq, err := matcher.Match(context.Background(), "what are your hours?")
	require.NoError(t, err)
	require.NotNil(t, faq)
	assert.Equal(t, uint(2), faq.ID)
}

func TestFAQMatcher_SearchFallback(t *testing.T) {
	repo := &fakeFAQRepo{
		faqs:         sampleFAQs(),
		searchResult: &model.FAQ{ID: 3, Answer: "Yes, grooming is available on weekdays."},
	}
	matcher := NewFAQMatcher(repo)

	faq, err := matcher.Match(context.Background(), "is there anything for a scruffy coat?")
	require.NoError(t, err)
	require.NotNil(t, faq)
	assert.Equal(t, uint(3), faq.ID)
	assert.True(t, repo.searchCalled)
}

func TestFAQMatcher_NoMatch(t *testing.T) {
	repo := &fakeFAQRepo{faqs: sampleFAQs()}
	matcher := NewFAQMatcher(repo)

	faq, err := matcher.Match(context.Background(), "zzz qqq xxx")
	require.NoError(t, err)
	assert.Nil(t, faq)
}

func TestFAQMatcher_SearchErrorDegradesToNoMatch(t *testing.T) {
	repo := &fakeFAQRepo{faqs: sampleFAQs(), searchErr: errors.New("es unavailable")}
	matcher := NewFAQMatcher(repo)

	faq, err := matcher.Match(context.Background(), "zzz qqq xxx")
	assert.NoError(t, err)
	assert.Nil(t, faq)
}

func TestFAQMatcher_RepoErrorPropagates(t *testing.T) {
	repo := &fakeFAQRepo{findActiveErr: errors.New("db down")}
	matcher := NewFAQMatcher(repo)

	faq, err := matcher.Match(context.Background(), "hours")
	assert.Error(t, err)
	assert.Nil(t, faq)
}
