package repository

import (
	"gorm.io/gorm/clause"

	"agile_tools/internal/models"
	"agile_tools/internal/storage"
)

type VoteRepository interface {
	// Upsert 以 (round_id, user_id) 為鍵寫入投票，重複投票覆蓋舊值。
	// 依賴資料庫的唯一索引加 ON CONFLICT，而不是先讀後寫，
	// 同一用戶的兩個並發投票由資料庫裁決為 last-write-wins
	Upsert(vote *models.PokerVote) error
	ListByRound(roundID uint) ([]models.PokerVote, error)
	DeleteByRound(roundID uint) error
}

type voteRepository struct {
	db *storage.PostgresDB
}

func NewVoteRepository(db *storage.PostgresDB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Upsert(vote *models.PokerVote) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_value", "updated_at"}),
	}).Create(vote).Error
	return translateError(err)
}

func (r *voteRepository) ListByRound(roundID uint) ([]models.PokerVote, error) {
	var votes []models.PokerVote
	err := r.db.Preload("User").Where("round_id = ?", roundID).Find(&votes).Error
	return votes, translateError(err)
}

// DeleteByRound 硬刪除該回合的所有投票，讓同一回合能重新投票
func (r *voteRepository) DeleteByRound(roundID uint) error {
	return translateError(r.db.Unscoped().Where("round_id = ?", roundID).Delete(&models.PokerVote{}).Error)
}
