package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SessionStatus 定義會話狀態的類型
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusArchived  SessionStatus = "archived" // 保留狀態，目前沒有任何操作會轉換到這裡
)

// ParticipantRole 定義參與者角色的類型
type ParticipantRole string

const (
	RoleFacilitator ParticipantRole = "facilitator" // 主持人，即會話建立者
	RoleParticipant ParticipantRole = "participant" // 一般參與者
)

// ValidVotes 是估點的固定詞彙表（Fibonacci 變體加上 ? 和 ☕）
var ValidVotes = []string{"0", "0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100", "?", "☕"}

// IsValidVote 檢查投票值是否在合法集合內
func IsValidVote(value string) bool {
	for _, v := range ValidVotes {
		if v == value {
			return true
		}
	}
	return false
}

// IsValidEstimate 檢查最終估點，接受合法投票值或任意十進位數字字串
// （只允許數字和至多一個小數點，不收正負號或科學記號）
func IsValidEstimate(value string) bool {
	if IsValidVote(value) {
		return true
	}
	if strings.Count(value, ".") > 1 {
		return false
	}
	digits := strings.ReplaceAll(value, ".", "")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PokerSession 表示一個 planning poker 估點會話
type PokerSession struct {
	gorm.Model
	SessionCode string        `gorm:"uniqueIndex;not null" json:"session_code"` // 對外的唯一識別碼，不可猜測
	Title       string        `gorm:"not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	CreatorID   uint          `gorm:"not null" json:"creator_id"`
	Status      SessionStatus `gorm:"type:varchar(20);default:active" json:"status"`
	IsRevealed  bool          `gorm:"default:false" json:"is_revealed"` // 顯示用的暫態旗標，新回合或重置時歸零
	CompletedAt *time.Time    `json:"completed_at"`
}

// PokerParticipant 表示會話中的一位參與者
// 離開會話只會把 IsActive 設為 false，不會刪除記錄（軟性在場狀態）
type PokerParticipant struct {
	gorm.Model
	SessionID uint            `gorm:"uniqueIndex:idx_participants_session_user" json:"session_id"`
	UserID    uint            `gorm:"uniqueIndex:idx_participants_session_user" json:"user_id"`
	Role      ParticipantRole `gorm:"type:varchar(20);default:participant" json:"role"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	JoinedAt  time.Time       `json:"joined_at"`
	User      User            `gorm:"foreignKey:UserID" json:"-"`
}

// PokerRound 表示會話中的一個估點回合
// CompletedAt 為 null 的最新回合就是當前投票目標
type PokerRound struct {
	gorm.Model
	SessionID     uint       `gorm:"uniqueIndex:idx_rounds_session_number" json:"session_id"`
	RoundNumber   int        `gorm:"uniqueIndex:idx_rounds_session_number" json:"round_number"`
	StoryTitle    string     `json:"story_title"`
	FinalEstimate *string    `json:"final_estimate"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// PokerVote 表示某回合中某用戶的一票
// (round, user) 唯一，同一用戶重複投票會覆蓋前一票
type PokerVote struct {
	gorm.Model
	SessionID uint   `gorm:"not null" json:"session_id"`
	RoundID   uint   `gorm:"uniqueIndex:idx_votes_round_user" json:"round_id"`
	UserID    uint   `gorm:"uniqueIndex:idx_votes_round_user" json:"user_id"`
	VoteValue string `gorm:"not null" json:"vote_value"`
	User      User   `gorm:"foreignKey:UserID" json:"-"`
}
