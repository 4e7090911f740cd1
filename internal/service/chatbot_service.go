package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"
	"city-pet-go/internal/repository"
	"city-pet-go/pkg/llm"
	"city-pet-go/pkg/log"
	"city-pet-go/pkg/tasks"
	"city-pet-go/pkg/token"
)

// EventPublisherFunc 把一条聊天事件投递到分析管道（Kafka）。
// 注入函数而非全局生产者，测试时可替换或置空。
type EventPublisherFunc func(event tasks.ChatEventTask) error

// ChatbotService 定义了聊天机器人核心管道的操作接口。
type ChatbotService interface {
	// ProcessMessage 处理一条入站消息并返回响应对象。
	// 管道内任何异常都会被吞掉并转为道歉式响应，本方法永不向调用方抛错。
	ProcessMessage(ctx context.Context, userID *uint, sessionID, message string) *model.ChatResult
	SubmitFeedback(ctx context.Context, messageID uint, rating int, comment string) error
	GetSessionHistory(sessionID string) ([]model.ChatLogDTO, error)
}

type chatbotService struct {
	triage       *TriageClassifier
	matcher      *FAQMatcher
	fallback     *FallbackResponder
	llmClient    llm.Client
	chatLogRepo  repository.ChatLogRepository
	sessionRepo  repository.SessionRepository
	hospital     config.HospitalConfig
	publishEvent EventPublisherFunc
}

// NewChatbotService 创建一个新的 ChatbotService 实例。
// llmClient 与 publishEvent 均可为 nil：前者表示 AI 阶段不可用，后者表示不投递分析事件。
func NewChatbotService(
	triage *TriageClassifier,
	matcher *FAQMatcher,
	fallback *FallbackResponder,
	llmClient llm.Client,
	chatLogRepo repository.ChatLogRepository,
	sessionRepo repository.SessionRepository,
	hospital config.HospitalConfig,
	publishEvent EventPublisherFunc,
) ChatbotService {
	return &chatbotService{
		triage:       triage,
		matcher:      matcher,
		fallback:     fallback,
		llmClient:    llmClient,
		chatLogRepo:  chatLogRepo,
		sessionRepo:  sessionRepo,
		hospital:     hospital,
		publishEvent: publishEvent,
	}
}

// ProcessMessage 按 分诊 → FAQ 匹配 → LLM → 兜底 的顺序给出响应。
// 每个阶段命中即终止，互不叠加；持久化与事件投递失败只记日志，不影响响应。
func (s *chatbotService) ProcessMessage(ctx context.Context, userID *uint, sessionID, message string) (result *model.ChatResult) {
	start := time.Now()
	if sessionID == "" {
		sessionID = "sess-" + token.GenerateRandomString(16)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[ChatbotService] 消息处理发生未预期异常: %v", r)
			result = &model.ChatResult{
				Response: fmt.Sprintf("I'm sorry, something went wrong on our side. Please try again in a moment, or call %s at %s.",
					s.hospital.Name, s.hospital.Phone),
				EmergencyLevel: model.EmergencyNone,
				Intent:         model.IntentGeneralQuestion,
				Source:         model.SourceError,
				SessionID:      sessionID,
			}
			s.finalize(ctx, userID, message, result, start)
		}
	}()

	result = s.respond(ctx, sessionID, message)
	s.finalize(ctx, userID, message, result, start)
	return result
}

// respond 执行线性状态机，产出终态响应对象。
func (s *chatbotService) respond(ctx context.Context, sessionID, message string) *model.ChatResult {
	// 1. 应急分诊：命中即短路，不再进入 FAQ/LLM 阶段
	level := s.triage.Classify(message)
	if level != model.EmergencyNone {
		return &model.ChatResult{
			Response:       s.emergencyResponse(level),
			EmergencyLevel: level,
			Intent:         model.IntentEmergencyHelp,
			Source:         model.SourceFallback,
			SessionID:      sessionID,
			ContactInfo: &model.ContactInfo{
				Phone:          s.hospital.Phone,
				EmergencyPhone: s.hospital.EmergencyPhone,
				Address:        s.hospital.Address,
			},
		}
	}

	// 2. FAQ 匹配：查询失败降级为无匹配
	faq, err := s.matcher.Match(ctx, message)
	if err != nil {
		log.Errorf("[ChatbotService] FAQ 匹配失败，按无匹配降级: %v", err)
		faq = nil
	}
	if faq != nil {
		return &model.ChatResult{
			Response:       faq.Answer,
			EmergencyLevel: level,
			Intent:         ClassifyIntent(message, faq.Category),
			Source:         model.SourceFAQ,
			SessionID:      sessionID,
			FAQID:          faq.ID,
		}
	}

	// 3. LLM 阶段：未配置 API Key 时整体跳过，不发起任何网络调用
	intent := ClassifyIntent(message, "")
	if s.llmClient != nil && s.llmClient.Available() {
		answer, err := s.askLLM(ctx, sessionID, message)
		if err == nil {
			return &model.ChatResult{
				Response:       answer,
				EmergencyLevel: level,
				Intent:         intent,
				Source:         model.SourceAI,
				SessionID:      sessionID,
			}
		}
		log.Errorf("[ChatbotService] LLM 全部尝试失败，转入兜底回复: %v", err)
	}

	// 4. 兜底回复：永远成功
	return &model.ChatResult{
		Response:       s.fallback.Respond(intent),
		EmergencyLevel: level,
		Intent:         intent,
		Source:         model.SourceFallback,
		SessionID:      sessionID,
		IsGenerated:    true,
	}
}

// finalize 写聊天日志、追加会话缓存并投递分析事件；全部失败可容忍。
func (s *chatbotService) finalize(ctx context.Context, userID *uint, message string, result *model.ChatResult, start time.Time) {
	elapsed := time.Since(start).Milliseconds()

	entry := &model.ChatLog{
		UserID:         userID,
		SessionID:      result.SessionID,
		UserMessage:    message,
		BotResponse:    result.Response,
		EmergencyLevel: result.EmergencyLevel,
		Intent:         result.Intent,
		ResponseTimeMs: elapsed,
		Source:         result.Source,
	}
	if result.FAQID != 0 {
		faqID := result.FAQID
		entry.FAQID = &faqID
	}
	if err := s.chatLogRepo.Create(entry); err != nil {
		log.Errorf("[ChatbotService] 写入聊天日志失败: %v", err)
	} else {
		result.MessageID = entry.ID
	}

	// 使用后台上下文：即使原始请求被取消，也要保留已完成的这轮对话
	if err := s.sessionRepo.AppendTurn(context.Background(), result.SessionID, message, result.Response); err != nil {
		log.Errorf("[ChatbotService] 追加会话缓存失败: %v", err)
	}

	if s.publishEvent != nil {
		event := tasks.ChatEventTask{
			SessionID:      result.SessionID,
			Intent:         result.Intent,
			EmergencyLevel: result.EmergencyLevel,
			Source:         result.Source,
			ResponseTimeMs: elapsed,
			OccurredAt:     time.Now(),
		}
		if err := s.publishEvent(event); err != nil {
			log.Errorf("[ChatbotService] 投递聊天事件失败: %v", err)
		}
	}
}

// askLLM 组装系统提示与会话上下文后调用 LLM。
func (s *chatbotService) askLLM(ctx context.Context, sessionID, message string) (string, error) {
	history, err := s.sessionRepo.GetRecentMessages(ctx, sessionID)
	if err != nil {
		log.Errorf("[ChatbotService] 加载会话上下文失败: %v", err)
		history = []model.ChatMessage{}
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: s.buildSystemPrompt()})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	return s.llmClient.Chat(ctx, messages)
}

// buildSystemPrompt 用医院信息和行为准则拼装系统提示词。
func (s *chatbotService) buildSystemPrompt() string {
	h := s.hospital
	return fmt.Sprintf(
		"You are the virtual assistant of %s, located at %s. Opening hours: %s. Phone: %s. Emergency line: %s. "+
			"Be concise and friendly. Never give a diagnosis. For any symptom or health concern, always recommend a visit to a veterinarian. "+
			"When it helps the customer, include our contact information in your answer.",
		h.Name, h.Address, h.Hours, h.Phone, h.EmergencyPhone)
}

// emergencyResponse 按应急等级生成带联系方式的提示文本。
func (s *chatbotService) emergencyResponse(level string) string {
	h := s.hospital
	switch level {
	case model.EmergencyCritical:
		return fmt.Sprintf("This sounds like a life-threatening emergency. Please call our emergency line %s RIGHT NOW and bring your pet to %s immediately. Keep your pet warm and as still as possible on the way.",
			h.EmergencyPhone, h.Address)
	case model.EmergencyUrgent:
		return fmt.Sprintf("This sounds serious and your pet should be seen today. Please call our emergency line %s or come to %s as soon as you can.",
			h.EmergencyPhone, h.Address)
	default:
		return fmt.Sprintf("Your pet's symptoms should be checked by a veterinarian soon. Please call %s to arrange a visit at %s. If things get worse, use our emergency line %s.",
			h.Phone, h.Address, h.EmergencyPhone)
	}
}

// SubmitFeedback 记录用户对某条响应的评分与评论。
func (s *chatbotService) SubmitFeedback(ctx context.Context, messageID uint, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	entry, err := s.chatLogRepo.FindByID(messageID)
	if err != nil {
		return fmt.Errorf("chat log not found: %w", err)
	}

	entry.FeedbackRating = &rating
	entry.FeedbackComment = comment
	return s.chatLogRepo.Update(entry)
}

// GetSessionHistory 返回一个会话按时间排序的聊天记录。
func (s *chatbotService) GetSessionHistory(sessionID string) ([]model.ChatLogDTO, error) {
	entries, err := s.chatLogRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	dtos := make([]model.ChatLogDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, model.ChatLogDTO{
			MessageID:      e.ID,
			UserMessage:    e.UserMessage,
			BotResponse:    e.BotResponse,
			EmergencyLevel: e.EmergencyLevel,
			Intent:         e.Intent,
			Source:         e.Source,
			FeedbackRating: e.FeedbackRating,
			CreatedAt:      model.LocalTime(e.CreatedAt),
		})
	}
	return dtos, nil
}
