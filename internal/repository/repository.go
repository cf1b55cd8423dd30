package repository

import (
	"errors"

	"gorm.io/gorm"

	"agile_tools/internal/errs"
	"agile_tools/internal/storage"
)

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Participant ParticipantRepository
	Round       RoundRepository
	Vote        VoteRepository
	Wheel       WheelRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Participant: NewParticipantRepository(db),
		Round:       NewRoundRepository(db),
		Vote:        NewVoteRepository(db),
		Wheel:       NewWheelRepository(db),
	}
}

// translateError 把 gorm 的錯誤轉成跨層的哨兵錯誤，上層只依賴 errs 套件
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.ErrAlreadyExists
	}
	return err
}
