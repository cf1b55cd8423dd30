package service

import (
	"errors"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
	"agile_tools/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Resolve 以 username 取得用戶，第一次見到的名字會自動建立
// 兩個請求同時建立同名用戶時，輸的一方改為讀取贏家寫入的記錄
func (s *UserService) Resolve(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	user = &models.User{Username: username}
	err = s.userRepo.Create(user)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, errs.ErrAlreadyExists) {
		return s.userRepo.FindByUsername(username)
	}
	return nil, err
}
