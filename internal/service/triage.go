// Package service 包含了应用的业务逻辑层。
package service

import (
	"strings"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"
)

// TriageClassifier 根据关键词把消息分为 critical/urgent/moderate/none 四档。
// 纯函数式实现：不访问任何外部资源，也从不返回错误。
// 刻意不做分词、词干化与否定识别——"not bleeding" 仍会命中 "bleeding"。
// 在医疗分诊场景下宁可误报不可漏报，误报的代价只是多一条急诊提示。
type TriageClassifier struct {
	critical []string
	urgent   []string
	moderate []string
}

// 配置缺失时使用的内置词表。
var (
	defaultCriticalKeywords = []string{
		"not breathing", "unconscious", "seizure", "hit by car", "hit by a car",
		"bleeding heavily", "poisoned", "poison", "collapsed", "choking",
		"severe bleeding", "unresponsive",
	}
	defaultUrgentKeywords = []string{
		"vomiting blood", "can't walk", "cannot walk", "broken bone",
		"difficulty breathing", "swollen", "bleeding", "severe pain",
		"bloated", "crying in pain",
	}
	defaultModerateKeywords = []string{
		"vomiting", "diarrhea", "not eating", "lethargic", "limping",
		"coughing", "sneezing", "itching", "fever",
	}
)

// NewTriageClassifier 用给定词表创建分诊器。
// 词表在构造时统一转为小写并不再修改，方便测试注入自定义词表。
func NewTriageClassifier(cfg config.TriageConfig) *TriageClassifier {
	critical := cfg.CriticalKeywords
	if len(critical) == 0 {
		critical = defaultCriticalKeywords
	}
	urgent := cfg.UrgentKeywords
	if len(urgent) == 0 {
		urgent = defaultUrgentKeywords
	}
	moderate := cfg.ModerateKeywords
	if len(moderate) == 0 {
		moderate = defaultModerateKeywords
	}
	return &TriageClassifier{
		critical: lowerAll(critical),
		urgent:   lowerAll(urgent),
		moderate: lowerAll(moderate),
	}
}

// Classify 返回消息的应急等级。
// 按 critical → urgent → moderate 的固定顺序扫描，首个命中的档位即为结果。
func (c *TriageClassifier) Classify(message string) string {
	text := strings.ToLower(message)

	if containsAny(text, c.critical) {
		return model.EmergencyCritical
	}
	if containsAny(text, c.urgent) {
		return model.EmergencyUrgent
	}
	if containsAny(text, c.moderate) {
		return model.EmergencyModerate
	}
	return model.EmergencyNone
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if word != "" && strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		lowered = append(lowered, strings.ToLower(w))
	}
	return lowered
}
