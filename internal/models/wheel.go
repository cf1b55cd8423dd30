package models

import (
	"gorm.io/gorm"
)

// WheelConfig 表示一組轉盤設定，Items 以 JSON 陣列文字存放
type WheelConfig struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	Items     string `gorm:"type:text" json:"items"`
	CreatorID uint   `gorm:"not null" json:"creator_id"`
}

// WheelResult 表示一次轉盤抽選的結果
type WheelResult struct {
	gorm.Model
	ConfigID     uint   `gorm:"index" json:"config_id"`
	SelectedItem string `json:"selected_item"`
}
