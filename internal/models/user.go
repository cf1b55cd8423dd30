package models

import (
	"gorm.io/gorm"
)

// User 表示系統中的用戶
// 用戶在第一次帶著新 username 發出請求時被自動建立，建立後不可改名
type User struct {
	gorm.Model        // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Username   string `gorm:"uniqueIndex;not null" json:"username"` // 用戶名，必須唯一
}
