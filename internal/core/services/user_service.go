package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateIdentity records the verified identity attributes the
// eligibility rules match against. How a phone or World ID proof is
// verified is a concern of the auth providers, not of this service.
func (s *UserService) UpdateIdentity(ctx context.Context, id uuid.UUID, input ports.UpdateIdentityInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	user.Phone = input.Phone
	user.PhoneCountryCode = input.PhoneCountryCode
	user.WorldIDVerified = input.WorldIDVerified
	if input.TelegramChatID != 0 {
		user.TelegramChatID = input.TelegramChatID
	}

	if err := s.repo.UpdateIdentity(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update identity: %w", err)
	}
	return user, nil
}
