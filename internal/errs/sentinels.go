// Package errs 定義跨層使用的哨兵錯誤，讓 handler 能穩定地對應 HTTP 狀態碼。
package errs

import "errors"

var (
	// ErrUnauthorized 表示請求缺少有效的身份資訊
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound 表示請求的資源不存在（未知的 session code、round number、config id）
	ErrNotFound = errors.New("not found")

	// ErrForbidden 表示呼叫者沒有執行該操作的權限（非主持人、非參與者）
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState 表示操作與當前狀態衝突（沒有進行中的回合、會話已結束）
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation 表示輸入未通過驗證（投票值不在合法集合內、欄位超出長度限制）
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists 表示唯一性約束被違反（session code 碰撞時用於觸發重試）
	ErrAlreadyExists = errors.New("already exists")
)
