package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateIdentity(ctx context.Context, user *domain.User) error
}

type UpdateIdentityInput struct {
	Phone            string
	PhoneCountryCode string
	WorldIDVerified  bool
	TelegramChatID   int64
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateIdentity(ctx context.Context, id uuid.UUID, input UpdateIdentityInput) (*domain.User, error)
}
