package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

// ResultStore keeps frozen aggregate snapshots, copied from the vote
// ledger at snapshot time.
type ResultStore struct {
	mu        sync.RWMutex
	votes     *VoteStore
	snapshots map[uuid.UUID][]domain.OptionTally
}

func NewResultStore(votes *VoteStore) *ResultStore {
	return &ResultStore{
		votes:     votes,
		snapshots: make(map[uuid.UUID][]domain.OptionTally),
	}
}

func (s *ResultStore) SnapshotVotes(ctx context.Context, electionID uuid.UUID) error {
	tallies, err := s.votes.AggregateByValue(ctx, electionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[electionID] = tallies
	return nil
}

func (s *ResultStore) GetSnapshot(_ context.Context, electionID uuid.UUID) ([]domain.OptionTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]domain.OptionTally, len(s.snapshots[electionID]))
	copy(snapshot, s.snapshots[electionID])
	return snapshot, nil
}
