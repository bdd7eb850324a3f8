// Package memory holds mutex-guarded in-memory implementations of the
// repository ports, used by unit tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type ElectionStore struct {
	mu        sync.RWMutex
	elections map[uuid.UUID]domain.Election
}

func NewElectionStore() *ElectionStore {
	return &ElectionStore{
		elections: make(map[uuid.UUID]domain.Election),
	}
}

func (s *ElectionStore) Save(_ context.Context, election *domain.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[election.ID] = *election
	return nil
}

func (s *ElectionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	return &election, nil
}

func (s *ElectionStore) GetAll(_ context.Context) ([]*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*domain.Election, 0, len(s.elections))
	for id := range s.elections {
		election := s.elections[id]
		items = append(items, &election)
	}
	sortByCreatedAt(items)
	return items, nil
}

func (s *ElectionStore) ListPublic(_ context.Context, limit, offset int) ([]*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*domain.Election, 0, len(s.elections))
	for id := range s.elections {
		election := s.elections[id]
		if election.IsPublic {
			items = append(items, &election)
		}
	}
	sortByCreatedAt(items)
	if offset >= len(items) {
		return []*domain.Election{}, nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (s *ElectionStore) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*domain.Election, 0)
	for id := range s.elections {
		election := s.elections[id]
		if election.CreatorID == creatorID {
			items = append(items, &election)
		}
	}
	sortByCreatedAt(items)
	return items, nil
}

func sortByCreatedAt(items []*domain.Election) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
