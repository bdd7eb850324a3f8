package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type delegationService struct {
	repo          ports.DelegationRepository
	eligibility   ports.EligibilityService
	notifications ports.NotificationService
}

// NewDelegationService builds the delegation registry. notifications may
// be nil; delegation changes then go unannounced.
func NewDelegationService(repo ports.DelegationRepository, eligibility ports.EligibilityService, notifications ports.NotificationService) ports.DelegationService {
	return &delegationService{
		repo:          repo,
		eligibility:   eligibility,
		notifications: notifications,
	}
}

// Delegate points the delegator at a delegate, switching atomically when
// a different delegation is already active.
func (s *delegationService) Delegate(ctx context.Context, delegatorID, delegateID uuid.UUID) (*domain.Delegation, error) {
	if delegatorID == uuid.Nil || delegateID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if delegatorID == delegateID {
		return nil, domain.ErrSelfDelegation
	}

	delegation, err := s.repo.SwitchActive(ctx, delegatorID, delegateID)
	if err != nil {
		return nil, fmt.Errorf("failed to switch delegation: %w", err)
	}

	s.notify(ctx, delegateID, domain.NotifyDelegationReceived, map[string]string{
		"delegator_id": delegatorID.String(),
	})

	return delegation, nil
}

// Revoke deactivates the delegator's active delegation. Revoking with no
// active delegation is a no-op.
func (s *delegationService) Revoke(ctx context.Context, delegatorID uuid.UUID) error {
	active, err := s.repo.GetActiveByDelegator(ctx, delegatorID)
	if err != nil {
		return fmt.Errorf("failed to get active delegation: %w", err)
	}
	if active == nil {
		return nil
	}

	if err := s.repo.Deactivate(ctx, delegatorID); err != nil {
		return fmt.Errorf("failed to revoke delegation: %w", err)
	}

	s.notify(ctx, active.DelegateID, domain.NotifyDelegationRevoked, map[string]string{
		"delegator_id": delegatorID.String(),
	})

	return nil
}

func (s *delegationService) Mine(ctx context.Context, delegatorID uuid.UUID) (*domain.Delegation, error) {
	return s.repo.GetActiveByDelegator(ctx, delegatorID)
}

// ValidDelegators resolves the delegate's active delegators and keeps
// only those independently eligible for the given election. One hop
// only: a delegator's own delegators never chain through.
func (s *delegationService) ValidDelegators(ctx context.Context, delegateID, electionID uuid.UUID) (*ports.ValidDelegators, error) {
	active, err := s.repo.ListActiveByDelegate(ctx, delegateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegators: %w", err)
	}

	result := &ports.ValidDelegators{Delegators: []uuid.UUID{}}
	for _, d := range active {
		eligibility, err := s.eligibility.CanVote(ctx, electionID, d.DelegatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check delegator eligibility: %w", err)
		}
		if eligibility.Eligible {
			result.Delegators = append(result.Delegators, d.DelegatorID)
		}
	}
	result.Count = len(result.Delegators)

	return result, nil
}

func (s *delegationService) notify(ctx context.Context, userID uuid.UUID, kind domain.NotificationKind, payload any) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(ctx, userID, kind, payload); err != nil {
		log.Printf("failed to notify %s about %s: %v", userID, kind, err)
	}
}
