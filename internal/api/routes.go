package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agile_tools/internal/api/handlers"
	"agile_tools/internal/middleware"
	"agile_tools/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	pokerHandler := handlers.NewPokerHandler(services.Poker, services.Hub)
	wheelHandler := handlers.NewWheelHandler(services.Wheel)
	wsHandler := handlers.NewWebSocketHandler(services.Poker, services.Hub)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// 需要身份的路由
	authorized := api.Group("/")
	authorized.Use(middleware.IdentityMiddleware(services.User))
	{
		// 估點會話相關
		poker := authorized.Group("/poker")
		{
			poker.POST("/sessions", pokerHandler.CreateSession)          // 建立會話
			poker.GET("/sessions", pokerHandler.ListSessions)            // 我建立的會話
			poker.GET("/sessions/:code", pokerHandler.GetSession)        // 會話詳情（自動加入）
			poker.POST("/sessions/:code/join", pokerHandler.JoinSession) // 加入會話
			poker.POST("/sessions/:code/vote", pokerHandler.CastVote)    // 投票
			poker.POST("/sessions/:code/reveal", pokerHandler.RevealVotes)
			poker.POST("/sessions/:code/reset", pokerHandler.ResetVotes)
			poker.POST("/sessions/:code/rounds", pokerHandler.StartRound)
			poker.POST("/sessions/:code/rounds/:number/complete", pokerHandler.CompleteRound)
			poker.POST("/sessions/:code/complete", pokerHandler.CompleteSession)
			poker.DELETE("/sessions/:code", pokerHandler.DeleteSession)
		}

		// 轉盤工具相關
		wheel := authorized.Group("/wheel")
		{
			wheel.POST("/configs", wheelHandler.CreateConfig)
			wheel.GET("/configs", wheelHandler.ListConfigs)
			wheel.GET("/configs/:id", wheelHandler.GetConfig)
			wheel.PUT("/configs/:id", wheelHandler.UpdateConfig)
			wheel.DELETE("/configs/:id", wheelHandler.DeleteConfig)
			wheel.POST("/results", wheelHandler.SaveResult)
			wheel.GET("/configs/:id/results", wheelHandler.ListResults)
		}
	}

	// WebSocket 連接點（身份由顯示名稱自報，不經過身份中間件）
	r.GET("/ws/poker/:code", wsHandler.HandlePoker)
}
