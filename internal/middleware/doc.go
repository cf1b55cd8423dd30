// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前只有身份解析：從信任的請求頭取出用戶名並換成用戶記錄，
// 供後續的 handler 使用。
package middleware
