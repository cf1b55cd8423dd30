package repository

import (
	"gorm.io/gorm"

	"agile_tools/internal/models"
	"agile_tools/internal/storage"
)

type WheelRepository interface {
	CreateConfig(config *models.WheelConfig) error
	FindConfigByID(id uint) (*models.WheelConfig, error)
	FindConfigByIDAndCreator(id, creatorID uint) (*models.WheelConfig, error)
	ListConfigsByCreator(creatorID uint) ([]models.WheelConfig, error)
	UpdateConfig(config *models.WheelConfig) error
	DeleteConfig(id uint) error
	CreateResult(result *models.WheelResult) error
	ListResultsByConfig(configID uint, limit int) ([]models.WheelResult, error)
}

type wheelRepository struct {
	db *storage.PostgresDB
}

func NewWheelRepository(db *storage.PostgresDB) WheelRepository {
	return &wheelRepository{db: db}
}

func (r *wheelRepository) CreateConfig(config *models.WheelConfig) error {
	return translateError(r.db.Create(config).Error)
}

func (r *wheelRepository) FindConfigByID(id uint) (*models.WheelConfig, error) {
	var config models.WheelConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &config, nil
}

func (r *wheelRepository) FindConfigByIDAndCreator(id, creatorID uint) (*models.WheelConfig, error) {
	var config models.WheelConfig
	err := r.db.Where("id = ? AND creator_id = ?", id, creatorID).First(&config).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &config, nil
}

func (r *wheelRepository) ListConfigsByCreator(creatorID uint) ([]models.WheelConfig, error) {
	var configs []models.WheelConfig
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&configs).Error
	return configs, translateError(err)
}

func (r *wheelRepository) UpdateConfig(config *models.WheelConfig) error {
	return translateError(r.db.Save(config).Error)
}

// DeleteConfig 連同該設定的抽選結果一併刪除
func (r *wheelRepository) DeleteConfig(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("config_id = ?", id).Delete(&models.WheelResult{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.WheelConfig{}, id).Error
	})
	return translateError(err)
}

func (r *wheelRepository) CreateResult(result *models.WheelResult) error {
	return translateError(r.db.Create(result).Error)
}

func (r *wheelRepository) ListResultsByConfig(configID uint, limit int) ([]models.WheelResult, error) {
	var results []models.WheelResult
	err := r.db.Where("config_id = ?", configID).Order("created_at DESC").Limit(limit).Find(&results).Error
	return results, translateError(err)
}
