package repository

import (
	"agile_tools/internal/models"
	"agile_tools/internal/storage"
)

type RoundRepository interface {
	Create(round *models.PokerRound) error
	Update(round *models.PokerRound) error
	// FindActive 回傳最新一個 completed_at 為 null 的回合，即當前投票目標
	FindActive(sessionID uint) (*models.PokerRound, error)
	FindByNumber(sessionID uint, roundNumber int) (*models.PokerRound, error)
	FindLast(sessionID uint) (*models.PokerRound, error)
	ListCompleted(sessionID uint) ([]models.PokerRound, error)
	CountBySession(sessionID uint) (int64, error)
}

type roundRepository struct {
	db *storage.PostgresDB
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *models.PokerRound) error {
	return translateError(r.db.Create(round).Error)
}

func (r *roundRepository) Update(round *models.PokerRound) error {
	return translateError(r.db.Save(round).Error)
}

func (r *roundRepository) FindActive(sessionID uint) (*models.PokerRound, error) {
	var round models.PokerRound
	err := r.db.Where("session_id = ? AND completed_at IS NULL", sessionID).
		Order("round_number DESC").First(&round).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &round, nil
}

func (r *roundRepository) FindByNumber(sessionID uint, roundNumber int) (*models.PokerRound, error) {
	var round models.PokerRound
	err := r.db.Where("session_id = ? AND round_number = ?", sessionID, roundNumber).First(&round).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &round, nil
}

func (r *roundRepository) FindLast(sessionID uint) (*models.PokerRound, error) {
	var round models.PokerRound
	err := r.db.Where("session_id = ?", sessionID).Order("round_number DESC").First(&round).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &round, nil
}

// ListCompleted 查詢已結束的回合，由新到舊
func (r *roundRepository) ListCompleted(sessionID uint) ([]models.PokerRound, error) {
	var rounds []models.PokerRound
	err := r.db.Where("session_id = ? AND completed_at IS NOT NULL", sessionID).
		Order("round_number DESC").Find(&rounds).Error
	return rounds, translateError(err)
}

func (r *roundRepository) CountBySession(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PokerRound{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, translateError(err)
}
