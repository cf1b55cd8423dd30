package service

import (
	"encoding/json"
	"fmt"
	"time"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
	"agile_tools/internal/repository"
)

// 轉盤設定的驗證界限
const (
	wheelNameMaxLen   = 100
	wheelItemsMin     = 2
	wheelItemsMax     = 50
	wheelResultsLimit = 20 // 歷史結果只保留最近 20 筆給前端
)

// WheelView 是轉盤設定的對外形狀，Items 還原成字串陣列
type WheelView struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Items     []string `json:"items"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// WheelResultView 是單筆抽選結果的對外形狀
type WheelResultView struct {
	ID           uint   `json:"id"`
	SelectedItem string `json:"selected_item"`
	CreatedAt    string `json:"created_at"`
}

// WheelService 管理轉盤設定與抽選結果，純 CRUD，沒有狀態機
type WheelService struct {
	wheelRepo repository.WheelRepository
}

func NewWheelService(wheelRepo repository.WheelRepository) *WheelService {
	return &WheelService{wheelRepo: wheelRepo}
}

// validateWheelInput 檢查名稱長度與項目數量，項目不可重複
func validateWheelInput(name string, items []string) error {
	if len(name) == 0 || len(name) > wheelNameMaxLen {
		return fmt.Errorf("%w: name must be 1-%d characters", errs.ErrValidation, wheelNameMaxLen)
	}
	if len(items) < wheelItemsMin || len(items) > wheelItemsMax {
		return fmt.Errorf("%w: items must contain %d-%d entries", errs.ErrValidation, wheelItemsMin, wheelItemsMax)
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			return fmt.Errorf("%w: items must be unique", errs.ErrValidation)
		}
		seen[item] = struct{}{}
	}
	return nil
}

func (s *WheelService) CreateConfig(name string, items []string, user *models.User) (*WheelView, error) {
	if err := validateWheelInput(name, items); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	config := &models.WheelConfig{
		Name:      name,
		Items:     string(encoded),
		CreatorID: user.ID,
	}
	if err := s.wheelRepo.CreateConfig(config); err != nil {
		return nil, err
	}
	return configView(config, false), nil
}

func (s *WheelService) ListConfigs(user *models.User) ([]WheelView, error) {
	configs, err := s.wheelRepo.ListConfigsByCreator(user.ID)
	if err != nil {
		return nil, err
	}
	views := make([]WheelView, 0, len(configs))
	for i := range configs {
		views = append(views, *configView(&configs[i], true))
	}
	return views, nil
}

func (s *WheelService) GetConfig(id uint) (*WheelView, error) {
	config, err := s.wheelRepo.FindConfigByID(id)
	if err != nil {
		return nil, err
	}
	return configView(config, false), nil
}

// UpdateConfig 只允許設定的擁有者修改，查不到時一律回 not found
func (s *WheelService) UpdateConfig(id uint, name string, items []string, user *models.User) (*WheelView, error) {
	if err := validateWheelInput(name, items); err != nil {
		return nil, err
	}

	config, err := s.wheelRepo.FindConfigByIDAndCreator(id, user.ID)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	config.Name = name
	config.Items = string(encoded)
	if err := s.wheelRepo.UpdateConfig(config); err != nil {
		return nil, err
	}
	return configView(config, false), nil
}

func (s *WheelService) DeleteConfig(id uint, user *models.User) error {
	config, err := s.wheelRepo.FindConfigByIDAndCreator(id, user.ID)
	if err != nil {
		return err
	}
	return s.wheelRepo.DeleteConfig(config.ID)
}

// SaveResult 記錄一次抽選結果
func (s *WheelService) SaveResult(configID uint, selectedItem string) error {
	if _, err := s.wheelRepo.FindConfigByID(configID); err != nil {
		return err
	}
	return s.wheelRepo.CreateResult(&models.WheelResult{
		ConfigID:     configID,
		SelectedItem: selectedItem,
	})
}

// ListResults 查詢最近的抽選結果，由新到舊
func (s *WheelService) ListResults(configID uint) ([]WheelResultView, error) {
	results, err := s.wheelRepo.ListResultsByConfig(configID, wheelResultsLimit)
	if err != nil {
		return nil, err
	}
	views := make([]WheelResultView, 0, len(results))
	for _, r := range results {
		views = append(views, WheelResultView{
			ID:           r.ID,
			SelectedItem: r.SelectedItem,
			CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		})
	}
	return views, nil
}

func configView(config *models.WheelConfig, withCreatedAt bool) *WheelView {
	var items []string
	if err := json.Unmarshal([]byte(config.Items), &items); err != nil {
		items = []string{}
	}
	view := &WheelView{
		ID:    config.ID,
		Name:  config.Name,
		Items: items,
	}
	if withCreatedAt {
		view.CreatedAt = config.CreatedAt.Format(time.RFC3339)
	}
	return view
}
