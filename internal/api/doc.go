// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含了所有的 HTTP 處理器（handlers）。
// handler 是狀態機與廣播中心之間的編排層：先執行狀態變更，
// 成功後才發佈對應事件，失敗則直接回傳錯誤、不碰廣播中心。
package api
