package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"agile_tools/internal/models"
	"agile_tools/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// 會話不存在時的關閉碼，屬於與前端約定的契約
const closeSessionNotFound = 4004

// WebSocketHandler 處理即時頻道的連線
// 客戶端以會話代碼加上自選的顯示名稱接入，從接入那一刻起接收事件流，
// 不會重播接入前漏掉的事件
type WebSocketHandler struct {
	pokerService *service.PokerService
	hub          *service.Hub
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(pokerService *service.PokerService, hub *service.Hub) *WebSocketHandler {
	return &WebSocketHandler{pokerService: pokerService, hub: hub}
}

// HandlePoker 處理估點會話的 WebSocket 連線請求
func (h *WebSocketHandler) HandlePoker(c *gin.Context) {
	sessionCode := c.Param("code")
	username := c.DefaultQuery("username", "Anonymous")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// 確認會話存在，不存在就以約定的關閉碼結束
	if _, err := h.pokerService.GetSession(sessionCode); err != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(closeSessionNotFound, "Session not found"))
		conn.Close()
		return
	}

	sub := h.hub.Subscribe(sessionCode, username, conn)

	// 通知所有觀看者（包含自己）有人加入
	h.hub.Publish(models.NewUserJoinedEvent(username), sessionCode)

	// 阻塞直到連線中斷
	h.hub.Serve(sub)

	h.hub.Publish(models.NewUserLeftEvent(username), sessionCode)
}
