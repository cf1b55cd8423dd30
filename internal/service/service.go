package service

import (
	"go.uber.org/zap"

	"agile_tools/internal/repository"
	"agile_tools/pkg/config"
)

type Services struct {
	User  *UserService
	Poker *PokerService
	Wheel *WheelService
	Hub   *Hub
}

func NewServices(repos *repository.Repositories, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		User:  NewUserService(repos.User),
		Poker: NewPokerService(repos, cfg.Poker.RejectVoteAfterReveal),
		Wheel: NewWheelService(repos.Wheel),
		Hub:   NewHub(logger),
	}
}
