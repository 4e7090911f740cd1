package service

import (
	"strings"

	"city-pet-go/internal/model"
)

// categoryIntents 把 FAQ 类目映射到意图标签，未识别的类目落到 general_question。
var categoryIntents = map[string]string{
	"appointment": model.IntentAppointmentBooking,
	"booking":     model.IntentAppointmentBooking,
	"hospital":    model.IntentHospitalInfo,
	"hours":       model.IntentHospitalInfo,
	"location":    model.IntentHospitalInfo,
	"pricing":     model.IntentPricingInquiry,
	"billing":     model.IntentPricingInquiry,
	"insurance":   model.IntentPricingInquiry,
	"services":    model.IntentServiceInquiry,
	"service":     model.IntentServiceInquiry,
	"pet_care":    model.IntentPetCareInfo,
	"petcare":     model.IntentPetCareInfo,
	"care":        model.IntentPetCareInfo,
	"emergency":   model.IntentEmergencyHelp,
	"greeting":    model.IntentGreeting,
}

// intentRule 是基于关键词的意图判定规则。
type intentRule struct {
	intent   string
	keywords []string
}

// intentRules 按固定顺序检查，首个命中的规则生效；
// 同时含 "hours" 与 "price" 的消息因此稳定地解析为排在前面的规则。
var intentRules = []intentRule{
	{model.IntentAppointmentBooking, []string{"appointment", "book", "schedule", "reserve", "visit"}},
	{model.IntentHospitalInfo, []string{"hours", "open", "close", "locate", "location", "address", "where"}},
	{model.IntentPricingInquiry, []string{"cost", "price", "fee", "charge", "insurance"}},
	{model.IntentServiceInquiry, []string{"service", "offer", "provide", "treatment"}},
	{model.IntentGreeting, []string{"hello", "hi ", "hey", "good morning", "good afternoon", "good evening"}},
}

// ClassifyIntent 把消息（和可选的 FAQ 类目）映射为粗粒度意图标签。
// 提供类目时走类目查表；否则按顺序做关键词规则匹配。纯函数。
func ClassifyIntent(message, category string) string {
	if category != "" {
		if intent, ok := categoryIntents[strings.ToLower(category)]; ok {
			return intent
		}
		return model.IntentGeneralQuestion
	}

	text := strings.ToLower(message)
	for _, rule := range intentRules {
		if containsAny(text, rule.keywords) {
			return rule.intent
		}
	}
	return model.IntentGeneralQuestion
}
