package service

import (
	"sort"
	"sync"
	"time"

	"agile_tools/internal/errs"
	"agile_tools/internal/models"
	"agile_tools/internal/repository"
)

// memData 是所有 fake repository 共用的記憶體資料，模擬單一資料庫
type memData struct {
	mu     sync.Mutex
	lastID uint

	users        []*models.User
	sessions     []*models.PokerSession
	participants []*models.PokerParticipant
	rounds       []*models.PokerRound
	votes        []*models.PokerVote
}

func (d *memData) nextID() uint {
	d.lastID++
	return d.lastID
}

func (d *memData) userByID(id uint) *models.User {
	for _, u := range d.users {
		if u.ID == id {
			return u
		}
	}
	return &models.User{}
}

func newMemRepos() (*repository.Repositories, *memData) {
	d := &memData{}
	return &repository.Repositories{
		User:        &fakeUserRepo{d: d},
		Session:     &fakeSessionRepo{d: d},
		Participant: &fakeParticipantRepo{d: d},
		Round:       &fakeRoundRepo{d: d},
		Vote:        &fakeVoteRepo{d: d},
	}, d
}

func addUser(d *memData, username string) *models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	user := &models.User{Username: username}
	user.ID = d.nextID()
	d.users = append(d.users, user)
	return user
}

type fakeUserRepo struct {
	d *memData
}

func (r *fakeUserRepo) Create(user *models.User) error {
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

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeSessionRepo struct {
	d *memData

	// createFailures 讓前 N 次 CreateWithSetup 假裝撞到唯一索引，用於測試重試
	createFailures int
	createCalls    int
}

func (r *fakeSessionRepo) CreateWithSetup(session *models.PokerSession, participant *models.PokerParticipant, round *models.PokerRound) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	r.createCalls++
	if r.createCalls <= r.createFailures {
		return errs.ErrAlreadyExists
	}
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

func (r *fakeSessionRepo) FindByCode(code string) (*models.PokerSession, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, s := range r.d.sessions {
		if s.SessionCode == code {
			return s, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeSessionRepo) FindByCreator(creatorID uint) ([]models.PokerSession, error) {
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

func (r *fakeSessionRepo) Update(session *models.PokerSession) error {
	return nil // 測試中共用指標，變更已生效
}

func (r *fakeSessionRepo) DeleteCascade(sessionID uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	sessions := r.d.sessions[:0]
	for _, s := range r.d.sessions {
		if s.ID != sessionID {
			sessions = append(sessions, s)
		}
	}
	r.d.sessions = sessions

	participants := r.d.participants[:0]
	for _, p := range r.d.participants {
		if p.SessionID != sessionID {
			participants = append(participants, p)
		}
	}
	r.d.participants = participants

	rounds := r.d.rounds[:0]
	for _, rd := range r.d.rounds {
		if rd.SessionID != sessionID {
			rounds = append(rounds, rd)
		}
	}
	r.d.rounds = rounds

	votes := r.d.votes[:0]
	for _, v := range r.d.votes {
		if v.SessionID != sessionID {
			votes = append(votes, v)
		}
	}
	r.d.votes = votes
	return nil
}

type fakeParticipantRepo struct {
	d *memData
}

func (r *fakeParticipantRepo) Create(participant *models.PokerParticipant) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, p := range r.d.participants {
		if p.SessionID == participant.SessionID && p.UserID == participant.UserID {
			return errs.ErrAlreadyExists
		}
	}
	participant.ID = r.d.nextID()
	r.d.participants = append(r.d.participants, participant)
	return nil
}

func (r *fakeParticipantRepo) Update(participant *models.PokerParticipant) error {
	return nil
}

func (r *fakeParticipantRepo) Find(sessionID, userID uint) (*models.PokerParticipant, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, p := range r.d.participants {
		if p.SessionID == sessionID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeParticipantRepo) FindActive(sessionID, userID uint) (*models.PokerParticipant, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, p := range r.d.participants {
		if p.SessionID == sessionID && p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeParticipantRepo) ListActive(sessionID uint) ([]models.PokerParticipant, error) {
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

type fakeRoundRepo struct {
	d *memData
}

func (r *fakeRoundRepo) Create(round *models.PokerRound) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.rounds {
		if existing.SessionID == round.SessionID && existing.RoundNumber == round.RoundNumber {
			return errs.ErrAlreadyExists
		}
	}
	round.ID = r.d.nextID()
	round.CreatedAt = time.Now()
	r.d.rounds = append(r.d.rounds, round)
	return nil
}

func (r *fakeRoundRepo) Update(round *models.PokerRound) error {
	return nil
}

func (r *fakeRoundRepo) FindActive(sessionID uint) (*models.PokerRound, error) {
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

func (r *fakeRoundRepo) FindByNumber(sessionID uint, roundNumber int) (*models.PokerRound, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, round := range r.d.rounds {
		if round.SessionID == sessionID && round.RoundNumber == roundNumber {
			return round, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeRoundRepo) FindLast(sessionID uint) (*models.PokerRound, error) {
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

func (r *fakeRoundRepo) ListCompleted(sessionID uint) ([]models.PokerRound, error) {
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

func (r *fakeRoundRepo) CountBySession(sessionID uint) (int64, error) {
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

type fakeVoteRepo struct {
	d *memData
}

func (r *fakeVoteRepo) Upsert(vote *models.PokerVote) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, existing := range r.d.votes {
		if existing.RoundID == vote.RoundID && existing.UserID == vote.UserID {
			existing.VoteValue = vote.VoteValue
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	vote.ID = r.d.nextID()
	vote.CreatedAt = time.Now()
	r.d.votes = append(r.d.votes, vote)
	return nil
}

func (r *fakeVoteRepo) ListByRound(roundID uint) ([]models.PokerVote, error) {
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

func (r *fakeVoteRepo) DeleteByRound(roundID uint) error {
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
