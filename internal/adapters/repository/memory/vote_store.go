package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type registryKey struct {
	electionID uuid.UUID
	voterID    uuid.UUID
}

type VoteStore struct {
	mu       sync.RWMutex
	votes    map[uuid.UUID]domain.Vote
	registry map[registryKey]domain.VoterRegistryEntry
}

func NewVoteStore() *VoteStore {
	return &VoteStore{
		votes:    make(map[uuid.UUID]domain.Vote),
		registry: make(map[registryKey]domain.VoterRegistryEntry),
	}
}

func (s *VoteStore) CreateVoteWithRegistry(_ context.Context, vote *domain.Vote, voterID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := registryKey{electionID: vote.ElectionID, voterID: voterID}
	if _, exists := s.registry[key]; exists {
		return domain.ErrAlreadyVoted
	}

	s.votes[vote.ID] = *vote
	s.registry[key] = domain.VoterRegistryEntry{
		ID:         uuid.New(),
		ElectionID: vote.ElectionID,
		VoterID:    voterID,
		VoteID:     vote.ID,
		VotedAt:    vote.VotedAt,
	}
	return nil
}

func (s *VoteStore) UpdateVote(_ context.Context, voteID uuid.UUID, value string, weight int, votedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vote, ok := s.votes[voteID]
	if !ok {
		return domain.ErrVoteNotFound
	}
	vote.Value = value
	vote.Weight = weight
	vote.VotedAt = votedAt
	s.votes[voteID] = vote
	return nil
}

func (s *VoteStore) GetVote(_ context.Context, voteID uuid.UUID) (*domain.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteID]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	return &vote, nil
}

func (s *VoteStore) GetRegistryEntry(_ context.Context, electionID, voterID uuid.UUID) (*domain.VoterRegistryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.registry[registryKey{electionID: electionID, voterID: voterID}]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *VoteStore) AggregateByValue(_ context.Context, electionID uuid.UUID) ([]domain.OptionTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weights := make(map[string]int64)
	ballots := make(map[string]int64)
	for id := range s.votes {
		vote := s.votes[id]
		if vote.ElectionID != electionID || vote.Value == "" {
			continue
		}
		weights[vote.Value] += int64(vote.Weight)
		ballots[vote.Value]++
	}

	values := make([]string, 0, len(weights))
	for v := range weights {
		values = append(values, v)
	}
	sort.Strings(values)

	tallies := make([]domain.OptionTally, 0, len(values))
	for _, v := range values {
		tallies = append(tallies, domain.OptionTally{Value: v, Weight: weights[v], Ballots: ballots[v]})
	}
	return tallies, nil
}

func (s *VoteStore) ListVotes(_ context.Context, electionID uuid.UUID) ([]*domain.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []*domain.Vote{}
	for id := range s.votes {
		vote := s.votes[id]
		if vote.ElectionID == electionID {
			items = append(items, &vote)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VotedAt.Before(items[j].VotedAt) })
	return items, nil
}

// RegistryCount reports how many registry rows exist for a voter in an
// election. Test-only helper backing the one-vote-per-user invariant.
func (s *VoteStore) RegistryCount(electionID, voterID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.registry[registryKey{electionID: electionID, voterID: voterID}]; ok {
		return 1
	}
	return 0
}

// VoteCount reports all ledger rows for an election.
func (s *VoteStore) VoteCount(electionID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for id := range s.votes {
		if s.votes[id].ElectionID == electionID {
			count++
		}
	}
	return count
}
