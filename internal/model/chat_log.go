package model

import "time"

// 应急等级，按 critical > urgent > moderate > none 的优先级取首个命中。
const (
	EmergencyNone     = "none"
	EmergencyModerate = "moderate"
	EmergencyUrgent   = "urgent"
	EmergencyCritical = "critical"
)

// Source 标记响应由哪个阶段产出，各阶段互斥。
const (
	SourceFAQ             = "faq"
	SourceAI              = "ai"
	SourceFallback        = "fallback"
	SourceError           = "error"
	SourceValidationError = "validation_error"
)

// 意图标签，用于兜底回复选择与日志分析。
const (
	IntentAppointmentBooking = "appointment_booking"
	IntentHospitalInfo       = "hospital_info"
	IntentPricingInquiry     = "pricing_inquiry"
	IntentServiceInquiry     = "service_inquiry"
	IntentPetCareInfo        = "pet_care_info"
	IntentEmergencyHelp      = "emergency_help"
	IntentGreeting           = "greeting"
	IntentGeneralQuestion    = "general_question"
)

// ChatLog 对应于数据库中的 'chat_logs' 表，每条入站消息写入一行。
// 写入后仅允许反馈提交修改 FeedbackRating/FeedbackComment 两个字段。
type ChatLog struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// UserID 为空表示匿名访客。
	UserID    *uint  `gorm:"index" json:"userId"`
	SessionID string `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	// UserMessage 与 BotResponse 记录一问一答。
	UserMessage string `gorm:"type:text;not null" json:"userMessage"`
	BotResponse string `gorm:"type:text;not null" json:"botResponse"`
	// EmergencyLevel 取 none|moderate|urgent|critical 之一。
	EmergencyLevel string `gorm:"type:varchar(16);index;not null" json:"emergencyLevel"`
	Intent         string `gorm:"type:varchar(32);index" json:"intent"`
	// ResponseTimeMs 为从收到消息到生成响应的毫秒数。
	ResponseTimeMs int64 `gorm:"default:0" json:"responseTime"`
	// Source 取 faq|ai|fallback|error|validation_error 之一。
	Source string `gorm:"type:varchar(24);index;not null" json:"source"`
	// FAQID 仅在 Source 为 faq 时有值。
	FAQID           *uint     `json:"faqId"`
	FeedbackRating  *int      `json:"feedbackRating"`
	FeedbackComment string    `gorm:"type:text" json:"feedbackComment"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ChatLog) TableName() string {
	return "chat_logs"
}
