// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strings"

	"city-pet-go/internal/model"
	"city-pet-go/internal/service"
	"city-pet-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatbotHandler 处理聊天挂件相关的 API 请求。
type ChatbotHandler struct {
	chatbotService service.ChatbotService
	faqService     service.FAQService
}

// NewChatbotHandler 创建一个新的 ChatbotHandler 实例。
func NewChatbotHandler(chatbotService service.ChatbotService, faqService service.FAQService) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotService: chatbotService,
		faqService:     faqService,
	}
}

type messageRequest struct {
	Message   string `json:"message"`
	UserID    *uint  `json:"userId"`
	SessionID string `json:"sessionId"`
}

// ProcessMessage 处理一条入站聊天消息。
// message 为空时返回 400，且不会写入任何聊天日志。
func (h *ChatbotHandler) ProcessMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "message is required",
			"data":    gin.H{"source": model.SourceValidationError},
		})
		return
	}

	result := h.chatbotService.ProcessMessage(c.Request.Context(), req.UserID, req.SessionID, req.Message)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": result})
}

type feedbackRequest struct {
	MessageID uint   `json:"messageId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// SubmitFeedback 记录用户对某条响应的评分。
func (h *ChatbotHandler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MessageID == 0 || req.Rating == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "messageId and rating are required",
			"data":    nil,
		})
		return
	}

	if err := h.chatbotService.SubmitFeedback(c.Request.Context(), req.MessageID, req.Rating, req.Comment); err != nil {
		log.Warnf("[ChatbotHandler] 反馈提交失败: messageId=%d, %v", req.MessageID, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "feedback recorded", "data": nil})
}

// ListFAQs 返回启用中的 FAQ 列表，按优先级降序。
func (h *ChatbotHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.faqService.ListActive()
	if err != nil {
		log.Errorf("[ChatbotHandler] 查询 FAQ 列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to load faqs",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": faqs})
}

// GetHistory 返回一个会话按时间排序的聊天记录。
func (h *ChatbotHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")

	history, err := h.chatbotService.GetSessionHistory(sessionID)
	if err != nil {
		log.Errorf("[ChatbotHandler] 查询会话历史失败: sessionId=%s, %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "failed to load chat history",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": history})
}
