package api

import (
	"sort"
	"sync"
	"time"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
	"agile_tools/internal/repository"
)

// 這裡的 fake repository 讓整組路由可以在沒有資料庫的情況下測試，
// 行為比照 gorm 實作：找不到回 errs.ErrNotFound、唯一性衝突回 errs.ErrAlreadyExists

type apiData struct {
	mu     sync.Mutex
	lastID uint

	users        []*models.User
	sessions     []*models.PokerSession
	participants []*models.PokerParticipant
	rounds       []*models.PokerRound
	votes        []*models.PokerVote
	wheels       []*models.WheelConfig
	results      []*models.WheelResult
}

func (d *apiData) nextID() uint {
	d.lastID++
	return d.lastID
}

func (d *apiData) userByID(id uint) *models.User {
	for _, u := range d.users {
		if u.ID == id {
			return u
		}
	}
	return &models.User{}
}

func newAPIRepos() (*repository.Repositories, *apiData) {
	d := &apiData{}
	return &repository.Repositories{
		User:        &apiUserRepo{d},
		Session:     &apiSessionRepo{d},
		Participant: &apiParticipantRepo{d},
		Round:       &apiRoundRepo{d},
		Vote:        &apiVoteRepo{d},
		Wheel:       &apiWheelRepo{d},
	}, d
}

type apiUserRepo struct{ d *apiData }

func (r *apiUserRepo) Create(user *models.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Username == user.Username {
			return errs.ErrAlreadyExists
		}
	}
	user.ID = r.d.nextID()
	r.d.users = append(r.d.users, user)
	return nil
}

func (r *apiUserRepo) FindByUsername(username string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

type apiSessionRepo struct{ d *apiData }

func (r *apiSessionRepo) CreateWithSetup(session *models.PokerSession, participant *models.PokerParticipant, round *models.PokerRound) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, s := range r.d.sessions {
		if s.SessionCode == session.SessionCode {
			return errs.ErrAlreadyExists
		}
	}
	session.ID = r.d.nextID()
	session.CreatedAt = time.Now()
	r.d.sessions = append(r.d.sessions, session)

	participant.SessionID = session.ID
	participant.ID = r.d.nextID()
	r.d.participants = append(r.d.participants, participant)

	round.SessionID = session.ID
	round.ID = r.d.nextID()
	round.CreatedAt = time.Now()
	r.d.rounds = append(r.d.rounds, round)
	return nil
}

func (r *apiSessionRepo) FindByCode(code string) (*models.PokerSession, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, s := range r.d.sessions {
		if s.SessionCode == code {
			return s, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *apiSessionRepo) FindByCreator(creatorID uint) ([]models.PokerSession, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.PokerSession
	for _, s := range r.d.sessions {
		if s.CreatorID == creatorID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *apiSessionRepo) Update(session *models.PokerSession) error { return nil }

func (r *apiSessionRepo) DeleteCascade(sessionID uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	sessions := r.d.sessions[:0]
	for _, s := range r.d.sessions {
		if s.ID != sessionID {
			sessions = append(sessions, s)
		}
	}
	r.d.sessions = sessions
	return nil
}

type apiParticipantRepo struct{ d *apiData }

func (r *apiParticipantRepo) Create(participant *models.PokerParticipant) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	participant.ID = r.d.nextID()
	r.d.participants = append(r.d.participants, participant)
	return nil
}

func (r *apiParticipantRepo) Update(participant *models.PokerParticipant) error { return nil }

func (r *apiParticipantRepo) Find(sessionID, userID uint) (*models.PokerParticipant, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, p := range r.d.participants {
		if p.SessionID == sessionID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *apiParticipantRepo) FindActive(sessionID, userID uint) (*models.PokerParticipant, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, p := range r.d.participants {
		if p.SessionID == sessionID && p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *apiParticipantRepo) ListActive(sessionID uint) ([]models.PokerParticipant, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.PokerParticipant
	for _, p := range r.d.participants {
		if p.SessionID == sessionID && p.IsActive {
			copied := *p
			copied.User = *r.d.userByID(p.UserID)
			out = append(out, copied)
		}
	}
	return out, nil
}

type apiRoundRepo struct{ d *apiData }

func (r *apiRoundRepo) Create(round *models.PokerRound) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	round.ID = r.d.nextID()
	round.CreatedAt = time.Now()
	r.d.rounds = append(r.d.rounds, round)
	return nil
}

func (r *apiRoundRepo) Update(round *models.PokerRound) error { return nil }

func (r *apiRoundRepo) FindActive(sessionID uint) (*models.PokerRound, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var found *models.PokerRound
	for _, round := range r.d.rounds {
		if round.SessionID == sessionID && round.CompletedAt == nil {
			if found == nil || round.RoundNumber > found.RoundNumber {
				found = round
			}
		}
	}
	if found == nil {
		return nil, errs.ErrNotFound
	}
	return found, nil
}

func (r *apiRoundRepo) FindByNumber(sessionID uint, roundNumber int) (*models.PokerRound, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, round := range r.d.rounds {
		if round.SessionID == sessionID && round.RoundNumber == roundNumber {
			return round, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *apiRoundRepo) FindLast(sessionID uint) (*models.PokerRound, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var found *models.PokerRound
	for _, round := range r.d.rounds {
		if round.SessionID == sessionID {
			if found == nil || round.RoundNumber > found.RoundNumber {
				found = round
			}
		}
	}
	if found == nil {
		return nil, errs.ErrNotFound
	}
	return found, nil
}

func (r *apiRoundRepo) ListCompleted(sessionID uint) ([]models.PokerRound, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.PokerRound
	for _, round := range r.d.rounds {
		if round.SessionID == sessionID && round.CompletedAt != nil {
			out = append(out, *round)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber > out[j].RoundNumber })
	return out, nil
}

func (r *apiRoundRepo) CountBySession(sessionID uint) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var count int64
	for _, round := range r.d.rounds {
		if round.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

type apiVoteRepo struct{ d *apiData }

func (r *apiVoteRepo) Upsert(vote *models.PokerVote) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.votes {
		if existing.RoundID == vote.RoundID && existing.UserID == vote.UserID {
			existing.VoteValue = vote.VoteValue
			return nil
		}
	}
	vote.ID = r.d.nextID()
	vote.CreatedAt = time.Now()
	r.d.votes = append(r.d.votes, vote)
	return nil
}

func (r *apiVoteRepo) ListByRound(roundID uint) ([]models.PokerVote, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.PokerVote
	for _, v := range r.d.votes {
		if v.RoundID == roundID {
			copied := *v
			copied.User = *r.d.userByID(v.UserID)
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *apiVoteRepo) DeleteByRound(roundID uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	votes := r.d.votes[:0]
	for _, v := range r.d.votes {
		if v.RoundID != roundID {
			votes = append(votes, v)
		}
	}
	r.d.votes = votes
	return nil
}

type apiWheelRepo struct{ d *apiData }

func (r *apiWheelRepo) CreateConfig(config *models.WheelConfig) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	config.ID = r.d.nextID()
	r.d.wheels = append(r.d.wheels, config)
	return nil
}

func (r *apiWheelRepo) FindConfigByID(id uint) (*models.WheelConfig, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.wheels {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *apiWheelRepo) FindConfigByIDAndCreator(id, creatorID uint) (*models.WheelConfig, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.wheels {
		if c.ID == id && c.CreatorID == creatorID {
			return c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *apiWheelRepo) ListConfigsByCreator(creatorID uint) ([]models.WheelConfig, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.WheelConfig
	for _, c := range r.d.wheels {
		if c.CreatorID == creatorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *apiWheelRepo) UpdateConfig(config *models.WheelConfig) error { return nil }

func (r *apiWheelRepo) DeleteConfig(id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	wheels := r.d.wheels[:0]
	for _, c := range r.d.wheels {
		if c.ID != id {
			wheels = append(wheels, c)
		}
	}
	r.d.wheels = wheels
	return nil
}

func (r *apiWheelRepo) CreateResult(result *models.WheelResult) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	result.ID = r.d.nextID()
	r.d.results = append(r.d.results, result)
	return nil
}

func (r *apiWheelRepo) ListResultsByConfig(configID uint, limit int) ([]models.WheelResult, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []models.WheelResult
	for i := len(r.d.results) - 1; i >= 0 && len(out) < limit; i-- {
		if r.d.results[i].ConfigID == configID {
			out = append(out, *r.d.results[i])
		}
	}
	return out, nil
}
