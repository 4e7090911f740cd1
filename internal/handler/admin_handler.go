package handler

import (
	"net/http"
	"strconv"

	"city-pet-go/internal/service"
	"city-pet-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AdminHandler 处理管理后台的统计与导出请求。
type AdminHandler struct {
	statsService service.StatsService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(statsService service.StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

// ListChatLogs 分页返回聊天日志。
func (h *AdminHandler) ListChatLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	entries, total, err := h.statsService.ListChatLogs(page, pageSize)
	if err != nil {
		log.Errorf("[AdminHandler] 查询聊天日志失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to load chat logs", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"items": entries,
			"total": total,
			"page":  page,
		},
	})
}

// GetStats 返回聊天日志的统计概览。
func (h *AdminHandler) GetStats(c *gin.Context) {
	overview, err := h.statsService.GetOverview(c.Request.Context())
	if err != nil {
		log.Errorf("[AdminHandler] 统计聚合失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to aggregate stats", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": overview})
}

// ExportChatLogs 导出聊天日志并返回预签名下载地址。
func (h *AdminHandler) ExportChatLogs(c *gin.Context) {
	url, err := h.statsService.ExportChatLogs(c.Request.Context())
	if err != nil {
		log.Errorf("[AdminHandler] 导出聊天日志失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to export chat logs", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"downloadUrl": url}})
}
