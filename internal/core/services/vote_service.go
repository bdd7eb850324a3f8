package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type voteService struct {
	electionRepo  ports.ElectionRepository
	voteRepo      ports.VoteRepository
	eligibility   ports.EligibilityService
	delegations   ports.DelegationService
	bus           ports.VoteEventBus
	notifications ports.NotificationService
}

// NewVoteService builds the vote ledger service. bus and notifications
// may be nil.
func NewVoteService(
	electionRepo ports.ElectionRepository,
	voteRepo ports.VoteRepository,
	eligibility ports.EligibilityService,
	delegations ports.DelegationService,
	bus ports.VoteEventBus,
	notifications ports.NotificationService,
) ports.VoteService {
	return &voteService{
		electionRepo:  electionRepo,
		voteRepo:      voteRepo,
		eligibility:   eligibility,
		delegations:   delegations,
		bus:           bus,
		notifications: notifications,
	}
}

// CastOrUpdate records exactly one vote per (election, voter). While the
// election is ongoing a repeat cast updates the existing record in place
// with a freshly computed weight; otherwise it is rejected.
func (s *voteService) CastOrUpdate(ctx context.Context, input ports.CastVoteInput) (*domain.Vote, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	election, err := s.electionRepo.GetByID(ctx, input.ElectionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !election.AcceptingVotes(now) {
		return nil, domain.ErrElectionClosed
	}

	eligibility, err := s.eligibility.CanVote(ctx, input.ElectionID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check eligibility: %w", err)
	}
	if !eligibility.Eligible {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotEligible, eligibility.Reason)
	}

	weight, err := s.effectiveWeight(ctx, input.UserID, input.ElectionID)
	if err != nil {
		return nil, err
	}

	entry, err := s.voteRepo.GetRegistryEntry(ctx, input.ElectionID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up voter registry: %w", err)
	}

	var vote *domain.Vote
	if entry == nil {
		vote = &domain.Vote{
			ID:         uuid.New(),
			ElectionID: input.ElectionID,
			Value:      input.Value,
			Weight:     weight,
			VotedAt:    now,
		}
		err = s.voteRepo.CreateVoteWithRegistry(ctx, vote, input.UserID)
		if errors.Is(err, domain.ErrAlreadyVoted) {
			// Lost a race on the registry key. Treat as "already voted"
			// and fall back to the update path while the election is
			// still ongoing.
			if !election.IsOngoing {
				return nil, domain.ErrAlreadyVoted
			}
			entry, err = s.voteRepo.GetRegistryEntry(ctx, input.ElectionID, input.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read voter registry: %w", err)
			}
			if entry == nil {
				return nil, domain.ErrInternal
			}
			vote, err = s.updateExisting(ctx, entry, input.Value, weight, now)
			if err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to save vote: %w", err)
		}
	} else {
		if !election.IsOngoing {
			return nil, domain.ErrAlreadyVoted
		}
		vote, err = s.updateExisting(ctx, entry, input.Value, weight, now)
		if err != nil {
			return nil, err
		}
	}

	if s.bus != nil {
		s.bus.Publish(ports.VoteEvent{ElectionID: input.ElectionID})
	}
	s.notifyCreator(ctx, election)

	return vote, nil
}

func (s *voteService) MyVote(ctx context.Context, electionID, userID uuid.UUID) (*domain.Vote, error) {
	entry, err := s.voteRepo.GetRegistryEntry(ctx, electionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up voter registry: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrVoteNotFound
	}
	return s.voteRepo.GetVote(ctx, entry.VoteID)
}

// effectiveWeight is 1 for the voter plus every active delegator who is
// eligible for this specific election right now. The stored weight is a
// snapshot; only a re-vote refreshes it.
func (s *voteService) effectiveWeight(ctx context.Context, userID, electionID uuid.UUID) (int, error) {
	if s.delegations == nil {
		return 1, nil
	}
	delegators, err := s.delegations.ValidDelegators(ctx, userID, electionID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve delegators: %w", err)
	}
	return 1 + delegators.Count, nil
}

// updateExisting rewrites the vote row the registry already points at,
// keeping the pointer intact so no orphan rows appear.
func (s *voteService) updateExisting(ctx context.Context, entry *domain.VoterRegistryEntry, value string, weight int, now time.Time) (*domain.Vote, error) {
	if err := s.voteRepo.UpdateVote(ctx, entry.VoteID, value, weight, now); err != nil {
		return nil, fmt.Errorf("failed to update vote: %w", err)
	}
	vote, err := s.voteRepo.GetVote(ctx, entry.VoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to read updated vote: %w", err)
	}
	return vote, nil
}

func (s *voteService) notifyCreator(ctx context.Context, election *domain.Election) {
	if s.notifications == nil || election.CreatorID == uuid.Nil {
		return
	}
	err := s.notifications.Notify(ctx, election.CreatorID, domain.NotifyElectionVoted, map[string]string{
		"election_id": election.ID.String(),
	})
	if err != nil {
		log.Printf("failed to notify creator of election %s: %v", election.ID, err)
	}
}
