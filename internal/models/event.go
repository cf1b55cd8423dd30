package models

import "encoding/json"

// Event 代表一個透過 WebSocket 廣播給會話訂閱者的事件
// payload 形狀是與前端的整合契約，欄位名稱不可隨意更動
type Event struct {
	Type          string          `json:"type"`
	Username      string          `json:"username,omitempty"`
	RoundNumber   int             `json:"round_number,omitempty"`
	StoryTitle    string          `json:"story_title,omitempty"`
	FinalEstimate string          `json:"final_estimate,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"` // 客戶端訊息的原樣轉發
}

// 事件類型常數
const (
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventVoteCast       = "vote_cast"
	EventVotesRevealed  = "votes_revealed"
	EventVotesReset     = "votes_reset"
	EventNewRound       = "new_round"
	EventRoundCompleted = "round_completed"
	EventMessage        = "message"
)

// NewUserJoinedEvent 建立用戶加入通知
func NewUserJoinedEvent(username string) *Event {
	return &Event{Type: EventUserJoined, Username: username}
}

// NewUserLeftEvent 建立用戶離開通知
func NewUserLeftEvent(username string) *Event {
	return &Event{Type: EventUserLeft, Username: username}
}

// NewVoteCastEvent 建立投票通知
// 刻意不帶投票值，客戶端要重新拉取會話詳情才能看到，以維持開牌前的保密
func NewVoteCastEvent(username string, roundNumber int) *Event {
	return &Event{Type: EventVoteCast, Username: username, RoundNumber: roundNumber}
}

// NewVotesRevealedEvent 建立開牌通知
func NewVotesRevealedEvent() *Event {
	return &Event{Type: EventVotesRevealed}
}

// NewVotesResetEvent 建立重置投票通知
func NewVotesResetEvent() *Event {
	return &Event{Type: EventVotesReset}
}

// NewRoundStartedEvent 建立新回合通知
func NewRoundStartedEvent(roundNumber int, storyTitle string) *Event {
	return &Event{Type: EventNewRound, RoundNumber: roundNumber, StoryTitle: storyTitle}
}

// NewRoundCompletedEvent 建立回合結束通知
func NewRoundCompletedEvent(roundNumber int, finalEstimate string) *Event {
	return &Event{Type: EventRoundCompleted, RoundNumber: roundNumber, FinalEstimate: finalEstimate}
}

// NewClientEvent 將客戶端送來的原始 JSON 包裝成轉發事件，附上發送者的顯示名稱
func NewClientEvent(eventType, username string, raw json.RawMessage) *Event {
	if eventType == "" {
		eventType = EventMessage
	}
	return &Event{Type: eventType, Username: username, Data: raw}
}
