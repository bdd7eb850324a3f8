package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type NotificationStore struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]domain.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

func (s *NotificationStore) Save(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = *n
	return nil
}

func (s *NotificationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []*domain.Notification{}
	for id := range s.notifications {
		n := s.notifications[id]
		if n.UserID == userID {
			items = append(items, &n)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrInternal
	}
	n.Read = true
	s.notifications[id] = n
	return nil
}
