package service

import (
	"errors"
	"time"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
)

// CurrentRoundView 是詳情中的當前回合摘要
type CurrentRoundView struct {
	RoundNumber int    `json:"round_number"`
	StoryTitle  string `json:"story_title"`
}

// VoteView 是詳情中的單筆投票；開牌前 Value 會被遮蔽
type VoteView struct {
	User    string `json:"user"`
	Value   string `json:"value"`
	VotedAt string `json:"voted_at"`
}

// ParticipantView 是詳情中的參與者，附帶本回合是否已投票
type ParticipantView struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	HasVoted bool   `json:"has_voted"`
}

// RoundHistoryView 是詳情中的已完成回合
type RoundHistoryView struct {
	RoundNumber   int     `json:"round_number"`
	StoryTitle    string  `json:"story_title"`
	FinalEstimate *string `json:"final_estimate"`
	CompletedAt   string  `json:"completed_at"`
}

// SessionDetails 是會話的完整檢視，一次回傳前端需要的所有狀態
type SessionDetails struct {
	ID            uint               `json:"id"`
	SessionCode   string             `json:"session_code"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Status        string             `json:"status"`
	IsRevealed    bool               `json:"is_revealed"`
	CreatorID     uint               `json:"creator_id"`
	CurrentRound  *CurrentRoundView  `json:"current_round"`
	Votes         []VoteView         `json:"votes"`
	Participants  []ParticipantView  `json:"participants"`
	RoundsHistory []RoundHistoryView `json:"rounds_history"`
	CreatedAt     string             `json:"created_at"`
}

// SessionSummary 是「我的會話」列表中的單筆摘要
type SessionSummary struct {
	ID          uint    `json:"id"`
	SessionCode string  `json:"session_code"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
	RoundsCount int64   `json:"rounds_count"`
}

// GetSessionDetails 組裝會話的完整檢視
// 查看本身就是加入：任何能看到會話的用戶會被自動加為參與者。
// 未開牌時投票值一律以佔位字串回傳
func (s *PokerService) GetSessionDetails(code string, user *models.User) (*SessionDetails, error) {
	session, err := s.GetSession(code)
	if err != nil {
		return nil, err
	}

	if err := s.JoinSession(session, user); err != nil {
		return nil, err
	}

	var currentRound *models.PokerRound
	round, err := s.roundRepo.FindActive(session.ID)
	if err == nil {
		currentRound = round
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	var votes []models.PokerVote
	if currentRound != nil {
		votes, err = s.voteRepo.ListByRound(currentRound.ID)
		if err != nil {
			return nil, err
		}
	}

	participants, err := s.participantRepo.ListActive(session.ID)
	if err != nil {
		return nil, err
	}

	completedRounds, err := s.roundRepo.ListCompleted(session.ID)
	if err != nil {
		return nil, err
	}

	details := &SessionDetails{
		ID:            session.ID,
		SessionCode:   session.SessionCode,
		Title:         session.Title,
		Description:   session.Description,
		Status:        string(session.Status),
		IsRevealed:    session.IsRevealed,
		CreatorID:     session.CreatorID,
		Votes:         make([]VoteView, 0, len(votes)),
		Participants:  make([]ParticipantView, 0, len(participants)),
		RoundsHistory: make([]RoundHistoryView, 0, len(completedRounds)),
		CreatedAt:     session.CreatedAt.Format(time.RFC3339),
	}

	if currentRound != nil {
		details.CurrentRound = &CurrentRoundView{
			RoundNumber: currentRound.RoundNumber,
			StoryTitle:  currentRound.StoryTitle,
		}
	}

	for _, v := range votes {
		value := hiddenVoteValue
		if session.IsRevealed {
			value = v.VoteValue
		}
		details.Votes = append(details.Votes, VoteView{
			User:    v.User.Username,
			Value:   value,
			VotedAt: v.CreatedAt.Format(time.RFC3339),
		})
	}

	for _, p := range participants {
		hasVoted := false
		for _, v := range votes {
			if v.UserID == p.UserID {
				hasVoted = true
				break
			}
		}
		details.Participants = append(details.Participants, ParticipantView{
			Username: p.User.Username,
			Role:     string(p.Role),
			HasVoted: hasVoted,
		})
	}

	for _, r := range completedRounds {
		details.RoundsHistory = append(details.RoundsHistory, RoundHistoryView{
			RoundNumber:   r.RoundNumber,
			StoryTitle:    r.StoryTitle,
			FinalEstimate: r.FinalEstimate,
			CompletedAt:   r.CompletedAt.Format(time.RFC3339),
		})
	}

	return details, nil
}

// GetUserSessions 查詢用戶建立的所有會話，由新到舊
func (s *PokerService) GetUserSessions(user *models.User) ([]SessionSummary, error) {
	sessions, err := s.sessionRepo.FindByCreator(user.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		count, err := s.roundRepo.CountBySession(sess.ID)
		if err != nil {
			return nil, err
		}
		summary := SessionSummary{
			ID:          sess.ID,
			SessionCode: sess.SessionCode,
			Title:       sess.Title,
			Description: sess.Description,
			Status:      string(sess.Status),
			CreatedAt:   sess.CreatedAt.Format(time.RFC3339),
			RoundsCount: count,
		}
		if sess.CompletedAt != nil {
			formatted := sess.CompletedAt.Format(time.RFC3339)
			summary.CompletedAt = &formatted
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
