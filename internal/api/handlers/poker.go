package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
	"agile_tools/internal/service"
)

// PokerHandler 處理估點會話相關的請求
// 每個變更操作都遵循同一套流程：呼叫狀態機，成功後才向廣播中心發佈對應事件。
// 兩步之間沒有交易保證，客戶端靠重新拉取詳情來補回漏掉的事件
type PokerHandler struct {
	pokerService *service.PokerService
	hub          *service.Hub
}

// NewPokerHandler 創建一個新的 PokerHandler 實例
func NewPokerHandler(pokerService *service.PokerService, hub *service.Hub) *PokerHandler {
	return &PokerHandler{pokerService: pokerService, hub: hub}
}

// CreateSession 處理建立會話的請求
func (h *PokerHandler) CreateSession(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.pokerService.CreateSession(input.Title, input.Description, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           session.ID,
		"session_code": session.SessionCode,
		"title":        session.Title,
		"description":  session.Description,
		"status":       session.Status,
	})
}

// ListSessions 回傳呼叫者建立的所有會話
func (h *PokerHandler) ListSessions(c *gin.Context) {
	sessions, err := h.pokerService.GetUserSessions(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession 回傳會話的完整詳情
// 查看即加入：呼叫者會被自動加為參與者
func (h *PokerHandler) GetSession(c *gin.Context) {
	details, err := h.pokerService.GetSessionDetails(c.Param("code"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// JoinSession 處理加入會話的請求，重複加入是冪等的
func (h *PokerHandler) JoinSession(c *gin.Context) {
	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	if session.Status != models.SessionStatusActive {
		respondError(c, fmt.Errorf("%w: session is not active", errs.ErrInvalidState))
		return
	}

	if err := h.pokerService.JoinSession(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined session successfully"})
}

// CastVote 為當前回合記錄一票
func (h *PokerHandler) CastVote(c *gin.Context) {
	var input struct {
		VoteValue string `json:"vote_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 詞彙表在邊界先擋一次，不合法的值不會進到狀態機
	if !models.IsValidVote(input.VoteValue) {
		respondError(c, fmt.Errorf("%w: vote must be one of %v", errs.ErrValidation, models.ValidVotes))
		return
	}

	user := currentUser(c)
	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	round, err := h.pokerService.CastVote(session, input.VoteValue, user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(models.NewVoteCastEvent(user.Username, round.RoundNumber), session.SessionCode)
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// RevealVotes 開牌，僅限主持人
func (h *PokerHandler) RevealVotes(c *gin.Context) {
	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pokerService.VerifyFacilitator(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.pokerService.RevealVotes(session); err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(models.NewVotesRevealedEvent(), session.SessionCode)
	c.JSON(http.StatusOK, gin.H{"message": "Votes revealed"})
}

// ResetVotes 重置當前回合的投票，僅限主持人
func (h *PokerHandler) ResetVotes(c *gin.Context) {
	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pokerService.VerifyFacilitator(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.pokerService.ResetVotes(session); err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(models.NewVotesResetEvent(), session.SessionCode)
	c.JSON(http.StatusOK, gin.H{"message": "Votes reset"})
}

// StartRound 開始新回合，僅限主持人
func (h *PokerHandler) StartRound(c *gin.Context) {
	var input struct {
		StoryTitle string `json:"story_title" binding:"max=200"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pokerService.VerifyFacilitator(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	round, err := h.pokerService.StartRound(session, input.StoryTitle)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(models.NewRoundStartedEvent(round.RoundNumber, round.StoryTitle), session.SessionCode)
	c.JSON(http.StatusOK, gin.H{
		"round_number": round.RoundNumber,
		"story_title":  round.StoryTitle,
		"message":      "New round started",
	})
}

// CompleteRound 以最終估點結束指定回合，僅限主持人
func (h *PokerHandler) CompleteRound(c *gin.Context) {
	roundNumber, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的回合編號"})
		return
	}

	var input struct {
		FinalEstimate string `json:"final_estimate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidEstimate(input.FinalEstimate) {
		respondError(c, fmt.Errorf("%w: final estimate should be a valid vote value or number", errs.ErrValidation))
		return
	}

	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pokerService.VerifyFacilitator(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	round, err := h.pokerService.CompleteRound(session, roundNumber, input.FinalEstimate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Publish(models.NewRoundCompletedEvent(round.RoundNumber, input.FinalEstimate), session.SessionCode)
	c.JSON(http.StatusOK, gin.H{"message": "Round completed"})
}

// CompleteSession 結束整個會話，僅限主持人
func (h *PokerHandler) CompleteSession(c *gin.Context) {
	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pokerService.VerifyFacilitator(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.pokerService.CompleteSession(session); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session completed"})
}

// DeleteSession 刪除會話與其所有資料，僅限主持人
func (h *PokerHandler) DeleteSession(c *gin.Context) {
	session, err := h.pokerService.GetSession(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.pokerService.VerifyFacilitator(session, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.pokerService.DeleteSession(session); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}
