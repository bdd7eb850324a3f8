package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[uuid.UUID]domain.User),
	}
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.users {
		user := s.users[id]
		if strings.EqualFold(user.Email, email) && user.DeletedAt == nil {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok || user.DeletedAt != nil {
		return nil, nil
	}
	return &user, nil
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) UpdateIdentity(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUnauthenticated
	}
	s.users[user.ID] = *user
	return nil
}
