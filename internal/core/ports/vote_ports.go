package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type VoteRepository interface {
	// CreateVoteWithRegistry inserts the vote and its registry entry in
	// one transaction. Returns domain.ErrAlreadyVoted when the registry's
	// (election_id, voter_id) key is already taken.
	CreateVoteWithRegistry(ctx context.Context, vote *domain.Vote, voterID uuid.UUID) error
	// UpdateVote rewrites value, weight and timestamp in place, keeping
	// the registry pointer intact.
	UpdateVote(ctx context.Context, voteID uuid.UUID, value string, weight int, votedAt time.Time) error
	GetVote(ctx context.Context, voteID uuid.UUID) (*domain.Vote, error)
	GetRegistryEntry(ctx context.Context, electionID, voterID uuid.UUID) (*domain.VoterRegistryEntry, error)
	// AggregateByValue sums stored weight per distinct vote value,
	// excluding null/empty values.
	AggregateByValue(ctx context.Context, electionID uuid.UUID) ([]domain.OptionTally, error)
	ListVotes(ctx context.Context, electionID uuid.UUID) ([]*domain.Vote, error)
}

type CastVoteInput struct {
	ElectionID uuid.UUID
	UserID     uuid.UUID
	Value      string
}

type VoteService interface {
	CastOrUpdate(ctx context.Context, input CastVoteInput) (*domain.Vote, error)
	MyVote(ctx context.Context, electionID, userID uuid.UUID) (*domain.Vote, error)
}
