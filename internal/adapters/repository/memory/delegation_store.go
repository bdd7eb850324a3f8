package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type DelegationStore struct {
	mu          sync.RWMutex
	delegations []domain.Delegation
}

func NewDelegationStore() *DelegationStore {
	return &DelegationStore{}
}

// SwitchActive holds the lock across deactivation and activation so no
// reader ever observes a delegator without an active row mid-switch.
func (s *DelegationStore) SwitchActive(_ context.Context, delegatorID, delegateID uuid.UUID) (*domain.Delegation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i := range s.delegations {
		if s.delegations[i].DelegatorID == delegatorID && s.delegations[i].Active {
			s.delegations[i].Active = false
			s.delegations[i].UpdatedAt = now
		}
	}

	for i := range s.delegations {
		if s.delegations[i].DelegatorID == delegatorID && s.delegations[i].DelegateID == delegateID {
			s.delegations[i].Active = true
			s.delegations[i].UpdatedAt = now
			delegation := s.delegations[i]
			return &delegation, nil
		}
	}

	delegation := domain.Delegation{
		ID:          uuid.New(),
		DelegatorID: delegatorID,
		DelegateID:  delegateID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.delegations = append(s.delegations, delegation)
	return &delegation, nil
}

func (s *DelegationStore) Deactivate(_ context.Context, delegatorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range s.delegations {
		if s.delegations[i].DelegatorID == delegatorID && s.delegations[i].Active {
			s.delegations[i].Active = false
			s.delegations[i].UpdatedAt = now
		}
	}
	return nil
}

func (s *DelegationStore) GetActiveByDelegator(_ context.Context, delegatorID uuid.UUID) (*domain.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.delegations {
		if s.delegations[i].DelegatorID == delegatorID && s.delegations[i].Active {
			delegation := s.delegations[i]
			return &delegation, nil
		}
	}
	return nil, nil
}

func (s *DelegationStore) ListActiveByDelegate(_ context.Context, delegateID uuid.UUID) ([]*domain.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []*domain.Delegation{}
	for i := range s.delegations {
		if s.delegations[i].DelegateID == delegateID && s.delegations[i].Active {
			delegation := s.delegations[i]
			items = append(items, &delegation)
		}
	}
	return items, nil
}

// ActiveCount reports how many active rows a delegator holds. Test-only
// helper backing the at-most-one-active invariant checks.
func (s *DelegationStore) ActiveCount(delegatorID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.delegations {
		if s.delegations[i].DelegatorID == delegatorID && s.delegations[i].Active {
			count++
		}
	}
	return count
}

// RowCount reports all rows for a delegator, active or not.
func (s *DelegationStore) RowCount(delegatorID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.delegations {
		if s.delegations[i].DelegatorID == delegatorID {
			count++
		}
	}
	return count
}
