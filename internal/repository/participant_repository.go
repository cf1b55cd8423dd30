package repository

import (
	"agile_tools/internal/models"
	"agile_tools/internal/storage"
)

type ParticipantRepository interface {
	Create(participant *models.PokerParticipant) error
	Update(participant *models.PokerParticipant) error
	Find(sessionID, userID uint) (*models.PokerParticipant, error)
	FindActive(sessionID, userID uint) (*models.PokerParticipant, error)
	ListActive(sessionID uint) ([]models.PokerParticipant, error)
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(participant *models.PokerParticipant) error {
	return translateError(r.db.Create(participant).Error)
}

func (r *participantRepository) Update(participant *models.PokerParticipant) error {
	return translateError(r.db.Save(participant).Error)
}

func (r *participantRepository) Find(sessionID, userID uint) (*models.PokerParticipant, error) {
	var participant models.PokerParticipant
	err := r.db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&participant).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &participant, nil
}

func (r *participantRepository) FindActive(sessionID, userID uint) (*models.PokerParticipant, error) {
	var participant models.PokerParticipant
	err := r.db.Where("session_id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		First(&participant).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &participant, nil
}

// ListActive 查詢會話中所有在場的參與者，連同用戶資料
func (r *participantRepository) ListActive(sessionID uint) ([]models.PokerParticipant, error) {
	var participants []models.PokerParticipant
	err := r.db.Preload("User").
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Order("joined_at ASC").Find(&participants).Error
	return participants, translateError(err)
}
