package repository

import (
	"gorm.io/gorm"

	"agile_tools/internal/models"
	"agile_tools/internal/storage"
)

type SessionRepository interface {
	// CreateWithSetup 在單一交易中建立會話、主持人參與者與第一回合，
	// 任何一步失敗都會整體回滾，讀取端永遠看不到缺了第一回合的會話
	CreateWithSetup(session *models.PokerSession, participant *models.PokerParticipant, round *models.PokerRound) error
	FindByCode(code string) (*models.PokerSession, error)
	FindByCreator(creatorID uint) ([]models.PokerSession, error)
	Update(session *models.PokerSession) error
	// DeleteCascade 連同參與者、回合與投票一併硬刪除
	DeleteCascade(sessionID uint) error
}

type sessionRepository struct {
	db *storage.PostgresDB
}

func NewSessionRepository(db *storage.PostgresDB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateWithSetup(session *models.PokerSession, participant *models.PokerParticipant, round *models.PokerRound) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		participant.SessionID = session.ID
		if err := tx.Create(participant).Error; err != nil {
			return err
		}
		round.SessionID = session.ID
		return tx.Create(round).Error
	})
	return translateError(err)
}

func (r *sessionRepository) FindByCode(code string) (*models.PokerSession, error) {
	var session models.PokerSession
	err := r.db.Where("session_code = ?", code).First(&session).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *sessionRepository) FindByCreator(creatorID uint) ([]models.PokerSession, error) {
	var sessions []models.PokerSession
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&sessions).Error
	return sessions, translateError(err)
}

func (r *sessionRepository) Update(session *models.PokerSession) error {
	return translateError(r.db.Save(session).Error)
}

func (r *sessionRepository) DeleteCascade(sessionID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("session_id = ?", sessionID).Delete(&models.PokerVote{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("session_id = ?", sessionID).Delete(&models.PokerRound{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("session_id = ?", sessionID).Delete(&models.PokerParticipant{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.PokerSession{}, sessionID).Error
	})
	return translateError(err)
}
