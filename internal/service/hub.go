package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"agile_tools/internal/models"
)

// sendBuffer 是每個訂閱者的事件佇列長度，佇列塞滿視為死連線
const sendBuffer = 256

// Subscriber 代表會話的一個即時觀看連線
// 以隨機連線 ID 為鍵註冊，兩個取相同顯示名稱的觀看者各自擁有獨立的投遞通道
type Subscriber struct {
	ID          string
	SessionCode string
	Username    string
	Conn        *websocket.Conn
	SendChan    chan *models.Event

	done      chan struct{}
	closeOnce sync.Once
}

// close 通知 writePump 結束並關閉底層連線，可安全地重複呼叫
func (sub *Subscriber) close() {
	sub.closeOnce.Do(func() {
		close(sub.done)
		if sub.Conn != nil {
			sub.Conn.Close()
		}
	})
}

// Hub 維護每個會話的即時訂閱者集合並負責事件廣播
// 整個行程只建一個實例，由 main 注入給 gateway 和 WebSocket handler；
// 訂閱者集合只能透過 Subscribe/Unsubscribe/Publish 存取
type Hub struct {
	sessions map[string]map[string]*Subscriber // 兩層 map: sessionCode -> 連線ID -> subscriber
	mu       sync.RWMutex                      // 保護 sessions map 的讀寫鎖
	logger   *zap.Logger
}

// NewHub 創建並初始化新的廣播中心
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[string]*Subscriber),
		logger:   logger,
	}
}

// Subscribe 把一個觀看連線註冊到會話的訂閱者集合
func (h *Hub) Subscribe(sessionCode, username string, conn *websocket.Conn) *Subscriber {
	sub := &Subscriber{
		ID:          uuid.Must(uuid.NewV4()).String(),
		SessionCode: sessionCode,
		Username:    username,
		Conn:        conn,
		SendChan:    make(chan *models.Event, sendBuffer),
		done:        make(chan struct{}),
	}

	h.mu.Lock()
	if h.sessions[sessionCode] == nil {
		h.sessions[sessionCode] = make(map[string]*Subscriber)
	}
	h.sessions[sessionCode][sub.ID] = sub
	h.mu.Unlock()

	return sub
}

// Unsubscribe 把訂閱者從集合移除；會話沒有任何觀看者時連會話項目一起移除
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.sessions[sub.SessionCode]; ok {
		delete(subs, sub.ID)
		if len(subs) == 0 {
			delete(h.sessions, sub.SessionCode)
		}
	}
}

// Publish 向會話的所有訂閱者投遞事件
// 投遞是盡力而為且彼此獨立：單一訂閱者失敗不影響其他人，也不會回報給呼叫者，
// 失敗的訂閱者會被自動移除
func (h *Hub) Publish(event *models.Event, sessionCode string) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.sessions[sessionCode]))
	for _, sub := range h.sessions[sessionCode] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.SendChan <- event:
			// 事件成功加入投遞佇列
		default:
			// 佇列已滿，視為死連線，移除並關閉
			h.logger.Warn("dropping unresponsive subscriber",
				zap.String("session_code", sessionCode),
				zap.String("username", sub.Username))
			h.Unsubscribe(sub)
			sub.close()
		}
	}
}

// SubscriberCount 回傳會話目前的在線訂閱者數量
func (h *Hub) SubscriberCount(sessionCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions[sessionCode])
}

// Serve 驅動一個已註冊訂閱者的讀寫迴圈，阻塞直到連線中斷
// 返回前會把訂閱者移出集合並關閉連線
func (h *Hub) Serve(sub *Subscriber) {
	defer func() {
		h.Unsubscribe(sub)
		sub.close()
	}()

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump 持續讀取客戶端送來的訊息並原樣轉發給同會話的所有人
func (h *Hub) readPump(sub *Subscriber) {
	sub.Conn.SetReadLimit(4096) // 最大訊息 4KB
	sub.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	sub.Conn.SetPongHandler(func(string) error {
		sub.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := sub.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket unexpected close", zap.Error(err))
			}
			break
		}

		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			h.logger.Warn("message parse error", zap.Error(err))
			continue
		}

		h.Publish(models.NewClientEvent(envelope.Type, sub.Username, message), sub.SessionCode)
	}
}

// writePump 把佇列中的事件依序寫出，並定時送心跳
func (h *Hub) writePump(sub *Subscriber) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event := <-sub.SendChan:
			sub.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("event encoding error", zap.Error(err))
				continue
			}
			if err := sub.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			sub.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := sub.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sub.done:
			sub.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			sub.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
