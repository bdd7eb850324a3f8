package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type CommentStore struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]domain.Comment
}

func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[uuid.UUID]domain.Comment),
	}
}

func (s *CommentStore) Save(_ context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *comment
	stored.Replies = nil
	s.comments[comment.ID] = stored
	return nil
}

func (s *CommentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &comment, nil
}

func (s *CommentStore) ListByElection(_ context.Context, electionID uuid.UUID) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []*domain.Comment{}
	for id := range s.comments {
		comment := s.comments[id]
		if comment.ElectionID == electionID {
			items = append(items, &comment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}
