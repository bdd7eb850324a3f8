package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type CommentRepository interface {
	Save(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.Comment, error)
}

type PostCommentInput struct {
	ElectionID uuid.UUID
	AuthorID   uuid.UUID
	ParentID   *uuid.UUID
	Body       string
}

type DiscussionService interface {
	Post(ctx context.Context, input PostCommentInput) (*domain.Comment, error)
	Threads(ctx context.Context, electionID uuid.UUID) ([]*domain.Comment, error)
}
