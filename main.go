package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agile_tools/internal/api"
	"agile_tools/internal/models"
	"agile_tools/internal/repository"
	"agile_tools/internal/service"
	"agile_tools/internal/storage"
	"agile_tools/pkg/config"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(
		&models.User{},
		&models.PokerSession{},
		&models.PokerParticipant{},
		&models.PokerRound{},
		&models.PokerVote{},
		&models.WheelConfig{},
		&models.WheelResult{},
	); err != nil {
		logger.Fatal("failed to auto migrate database", zap.Error(err))
	}

	// 初始化 repositories 和 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg, logger)

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	logger.Info("starting server", zap.String("address", cfg.Server.Address))
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
