package handler

import (
	"net/http"

	"city-pet-go/internal/service"
	"city-pet-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 挂件嵌入在医院官网的任意页面，允许所有来源
	},
}

// ChatWSHandler 通过 WebSocket 为聊天挂件提供与 POST /message 等价的能力。
type ChatWSHandler struct {
	chatbotService service.ChatbotService
}

// NewChatWSHandler 创建一个新的 ChatWSHandler 实例。
func NewChatWSHandler(chatbotService service.ChatbotService) *ChatWSHandler {
	return &ChatWSHandler{chatbotService: chatbotService}
}

type wsInbound struct {
	Message string `json:"message"`
}

// Handle 处理一个传入的 WebSocket 连接。
// 每收到一帧 {message}，就跑一遍消息管道并把响应对象写回。
func (h *ChatWSHandler) Handle(c *gin.Context) {
	sessionID := c.Param("sessionId")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立, session: %s", sessionID)

	for {
		var inbound wsInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("WebSocket 连接异常关闭: %v", err)
			}
			return
		}
		if inbound.Message == "" {
			_ = conn.WriteJSON(gin.H{"error": "message is required"})
			continue
		}

		result := h.chatbotService.ProcessMessage(c.Request.Context(), nil, sessionID, inbound.Message)
		if err := conn.WriteJSON(result); err != nil {
			log.Error("WebSocket 写入响应失败", err)
			return
		}
	}
}
