package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type DelegationRepository interface {
	// SwitchActive deactivates every active delegation held by the
	// delegator and activates (creating or reactivating) the row for
	// (delegatorID, delegateID), all inside one transaction.
	SwitchActive(ctx context.Context, delegatorID, delegateID uuid.UUID) (*domain.Delegation, error)
	// Deactivate clears the delegator's active delegation. A no-op when
	// none is active.
	Deactivate(ctx context.Context, delegatorID uuid.UUID) error
	GetActiveByDelegator(ctx context.Context, delegatorID uuid.UUID) (*domain.Delegation, error)
	ListActiveByDelegate(ctx context.Context, delegateID uuid.UUID) ([]*domain.Delegation, error)
}

// ValidDelegators is the set of active delegators of a delegate who are
// independently eligible for one specific election.
type ValidDelegators struct {
	Count      int         `json:"delegator_count"`
	Delegators []uuid.UUID `json:"delegators"`
}

type DelegationService interface {
	Delegate(ctx context.Context, delegatorID, delegateID uuid.UUID) (*domain.Delegation, error)
	Revoke(ctx context.Context, delegatorID uuid.UUID) error
	Mine(ctx context.Context, delegatorID uuid.UUID) (*domain.Delegation, error)
	ValidDelegators(ctx context.Context, delegateID, electionID uuid.UUID) (*ValidDelegators, error)
}
