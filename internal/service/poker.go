package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
	"agile_tools/internal/repository"
)

// sessionCodeBytes 是編碼前的隨機位元組數，8 bytes 的熵讓碰撞機率可忽略
const sessionCodeBytes = 8

// createRetries 是 session code 撞到唯一索引時的重新生成次數上限
const createRetries = 5

// hiddenVoteValue 是開牌前對外顯示的佔位值
const hiddenVoteValue = "hidden"

// PokerService 是會話生命週期與投票記錄的唯一真實來源，
// 所有狀態變更都必須經過這裡
type PokerService struct {
	sessionRepo     repository.SessionRepository
	participantRepo repository.ParticipantRepository
	roundRepo       repository.RoundRepository
	voteRepo        repository.VoteRepository

	// rejectVoteAfterReveal 控制開牌後是否拒絕後續投票，預設沿用放行的行為
	rejectVoteAfterReveal bool
}

func NewPokerService(repos *repository.Repositories, rejectVoteAfterReveal bool) *PokerService {
	return &PokerService{
		sessionRepo:           repos.Session,
		participantRepo:       repos.Participant,
		roundRepo:             repos.Round,
		voteRepo:              repos.Vote,
		rejectVoteAfterReveal: rejectVoteAfterReveal,
	}
}

// generateSessionCode 產生 URL-safe 且不可猜測的會話代碼
func generateSessionCode() (string, error) {
	buf := make([]byte, sessionCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CreateSession 建立新的估點會話
// 會話、主持人參與者與第一回合在同一交易中建立；code 撞到唯一索引時重新生成
func (s *PokerService) CreateSession(title, description string, user *models.User) (*models.PokerSession, error) {
	var lastErr error
	for i := 0; i < createRetries; i++ {
		code, err := generateSessionCode()
		if err != nil {
			return nil, err
		}

		session := &models.PokerSession{
			SessionCode: code,
			Title:       title,
			Description: description,
			CreatorID:   user.ID,
			Status:      models.SessionStatusActive,
		}
		participant := &models.PokerParticipant{
			UserID:   user.ID,
			Role:     models.RoleFacilitator,
			IsActive: true,
			JoinedAt: time.Now(),
		}
		firstRound := &models.PokerRound{
			RoundNumber: 1,
			StoryTitle:  "Round 1",
		}

		err = s.sessionRepo.CreateWithSetup(session, participant, firstRound)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, errs.ErrAlreadyExists) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("session code collision after %d attempts: %w", createRetries, lastErr)
}

// GetSession 以代碼查詢會話，找不到時回傳 errs.ErrNotFound
func (s *PokerService) GetSession(code string) (*models.PokerSession, error) {
	return s.sessionRepo.FindByCode(code)
}

// JoinSession 讓用戶成為會話參與者，冪等
// 已有參與記錄時只重新啟用，不會動到角色；主持人身份永遠不會被改寫
func (s *PokerService) JoinSession(session *models.PokerSession, user *models.User) error {
	existing, err := s.participantRepo.Find(session.ID, user.ID)
	if err == nil {
		if existing.IsActive {
			return nil
		}
		existing.IsActive = true
		return s.participantRepo.Update(existing)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	participant := &models.PokerParticipant{
		SessionID: session.ID,
		UserID:    user.ID,
		Role:      models.RoleParticipant,
		IsActive:  true,
		JoinedAt:  time.Now(),
	}
	return s.participantRepo.Create(participant)
}

// LeaveSession 把參與者標記為不在場，不刪除記錄
func (s *PokerService) LeaveSession(session *models.PokerSession, user *models.User) error {
	participant, err := s.participantRepo.Find(session.ID, user.ID)
	if err != nil {
		return err
	}
	participant.IsActive = false
	return s.participantRepo.Update(participant)
}

// CastVote 為當前回合記錄一票，回傳投票所屬的回合
// 同一用戶在同一回合重複投票會覆蓋前一票
func (s *PokerService) CastVote(session *models.PokerSession, value string, user *models.User) (*models.PokerRound, error) {
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: session is not active", errs.ErrInvalidState)
	}
	// 邊界層已驗證過，這裡再防禦性地檢查一次
	if !models.IsValidVote(value) {
		return nil, fmt.Errorf("%w: invalid vote value %q", errs.ErrValidation, value)
	}
	if s.rejectVoteAfterReveal && session.IsRevealed {
		return nil, fmt.Errorf("%w: votes are revealed", errs.ErrInvalidState)
	}

	if _, err := s.participantRepo.FindActive(session.ID, user.ID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: not a participant of this session", errs.ErrForbidden)
		}
		return nil, err
	}

	round, err := s.roundRepo.FindActive(session.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active round", errs.ErrInvalidState)
		}
		return nil, err
	}

	vote := &models.PokerVote{
		SessionID: session.ID,
		RoundID:   round.ID,
		UserID:    user.ID,
		VoteValue: value,
	}
	if err := s.voteRepo.Upsert(vote); err != nil {
		return nil, err
	}
	return round, nil
}

// VerifyFacilitator 檢查用戶是否為會話的主持人（即建立者）
// 純判斷函式，不產生副作用
func (s *PokerService) VerifyFacilitator(session *models.PokerSession, user *models.User) error {
	if session.CreatorID != user.ID {
		return fmt.Errorf("%w: only the session creator can perform this action", errs.ErrForbidden)
	}
	return nil
}

// RevealVotes 開牌，讓當前回合的投票值對所有人可見
func (s *PokerService) RevealVotes(session *models.PokerSession) error {
	if session.Status != models.SessionStatusActive {
		return fmt.Errorf("%w: session is not active", errs.ErrInvalidState)
	}
	session.IsRevealed = true
	return s.sessionRepo.Update(session)
}

// ResetVotes 清掉當前回合的所有投票並蓋回牌面，回合本身不變
func (s *PokerService) ResetVotes(session *models.PokerSession) error {
	if session.Status != models.SessionStatusActive {
		return fmt.Errorf("%w: session is not active", errs.ErrInvalidState)
	}

	round, err := s.roundRepo.FindActive(session.ID)
	if err == nil {
		if err := s.voteRepo.DeleteByRound(round.ID); err != nil {
			return err
		}
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	session.IsRevealed = false
	return s.sessionRepo.Update(session)
}

// StartRound 開始新的估點回合
// 若還有未結束的回合，先把它標記完成（最終估點留空），
// 確保任何時刻最多只有一個進行中的回合
func (s *PokerService) StartRound(session *models.PokerSession, storyTitle string) (*models.PokerRound, error) {
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: session is not active", errs.ErrInvalidState)
	}

	active, err := s.roundRepo.FindActive(session.ID)
	if err == nil {
		now := time.Now()
		active.CompletedAt = &now
		if err := s.roundRepo.Update(active); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	nextNumber := 1
	last, err := s.roundRepo.FindLast(session.ID)
	if err == nil {
		nextNumber = last.RoundNumber + 1
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	if storyTitle == "" {
		storyTitle = fmt.Sprintf("Round %d", nextNumber)
	}
	round := &models.PokerRound{
		SessionID:   session.ID,
		RoundNumber: nextNumber,
		StoryTitle:  storyTitle,
	}
	if err := s.roundRepo.Create(round); err != nil {
		return nil, err
	}

	session.IsRevealed = false
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, err
	}
	return round, nil
}

// CompleteRound 以最終估點結束指定回合
func (s *PokerService) CompleteRound(session *models.PokerSession, roundNumber int, finalEstimate string) (*models.PokerRound, error) {
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: session is not active", errs.ErrInvalidState)
	}
	if !models.IsValidEstimate(finalEstimate) {
		return nil, fmt.Errorf("%w: invalid final estimate %q", errs.ErrValidation, finalEstimate)
	}

	round, err := s.roundRepo.FindByNumber(session.ID, roundNumber)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: round %d", errs.ErrNotFound, roundNumber)
		}
		return nil, err
	}

	now := time.Now()
	round.FinalEstimate = &finalEstimate
	round.CompletedAt = &now
	if err := s.roundRepo.Update(round); err != nil {
		return nil, err
	}
	return round, nil
}

// CompleteSession 結束整個會話，之後不再接受任何回合或投票變更
func (s *PokerService) CompleteSession(session *models.PokerSession) error {
	if session.Status != models.SessionStatusActive {
		return fmt.Errorf("%w: session is not active", errs.ErrInvalidState)
	}
	now := time.Now()
	session.Status = models.SessionStatusCompleted
	session.CompletedAt = &now
	return s.sessionRepo.Update(session)
}

// DeleteSession 硬刪除會話與其所有參與者、回合和投票
func (s *PokerService) DeleteSession(session *models.PokerSession) error {
	return s.sessionRepo.DeleteCascade(session.ID)
}
