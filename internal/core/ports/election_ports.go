package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type ElectionRepository interface {
	Save(ctx context.Context, election *domain.Election) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	GetAll(ctx context.Context) ([]*domain.Election, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*domain.Election, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Election, error)
}

type CreateElectionInput struct {
	CreatorID     uuid.UUID
	Title         string
	Description   string
	Identity      domain.IdentityConfig
	Voting        domain.VotingConfig
	BallotOptions []string
	StartDate     *string
	EndDate       *string
	IsOngoing     bool
	IsPublic      bool
}

type ListElectionsInput struct {
	Page int
}

type ElectionService interface {
	Create(ctx context.Context, input CreateElectionInput) (*domain.Election, error)
	Get(ctx context.Context, id string) (*domain.Election, error)
	ListPublic(ctx context.Context, input ListElectionsInput) ([]*domain.Election, error)
	ListMine(ctx context.Context, creatorID uuid.UUID) ([]*domain.Election, error)
}
