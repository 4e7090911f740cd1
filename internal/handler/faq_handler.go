package handler

import (
	"net/http"
	"strconv"

	"city-pet-go/internal/model"
	"city-pet-go/internal/service"
	"city-pet-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// FAQHandler 处理管理后台的 FAQ 维护请求。
type FAQHandler struct {
	faqService service.FAQService
}

// NewFAQHandler 创建一个新的 FAQHandler 实例。
func NewFAQHandler(faqService service.FAQService) *FAQHandler {
	return &FAQHandler{faqService: faqService}
}

type faqRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
	Priority int      `json:"priority"`
	IsActive *bool    `json:"isActive"`
}

// ListAll 返回全部 FAQ（含停用），供后台管理页面使用。
func (h *FAQHandler) ListAll(c *gin.Context) {
	faqs, err := h.faqService.ListAll()
	if err != nil {
		log.Errorf("[FAQHandler] 查询全部 FAQ 失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to load faqs", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": faqs})
}

// Create 新增一条 FAQ。
func (h *FAQHandler) Create(c *gin.Context) {
	var req faqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request body", "data": nil})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	faq := &model.FAQ{
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: req.Keywords,
		Category: req.Category,
		Priority: req.Priority,
		IsActive: isActive,
	}

	if err := h.faqService.Create(c.Request.Context(), faq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error(), "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": faq})
}

// Update 更新一条 FAQ。
func (h *FAQHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid faq id", "data": nil})
		return
	}

	var req faqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request body", "data": nil})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	faq := &model.FAQ{
		ID:       uint(id),
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: req.Keywords,
		Category: req.Category,
		Priority: req.Priority,
		IsActive: isActive,
	}

	if err := h.faqService.Update(c.Request.Context(), faq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error(), "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": faq})
}

// Delete 删除一条 FAQ。
func (h *FAQHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid faq id", "data": nil})
		return
	}

	if err := h.faqService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to delete faq", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}
