package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type AuthStore struct {
	mu     sync.RWMutex
	tokens map[uuid.UUID]domain.RefreshToken
}

func NewAuthStore() *AuthStore {
	return &AuthStore{
		tokens: make(map[uuid.UUID]domain.RefreshToken),
	}
}

func (s *AuthStore) StoreRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	s.tokens[token.ID] = *token
	return nil
}

func (s *AuthStore) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.tokens {
		token := s.tokens[id]
		if token.TokenHash == tokenHash {
			return &token, nil
		}
	}
	return nil, nil
}

func (s *AuthStore) RevokeRefreshToken(_ context.Context, id string) error {
	tokenID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("refresh token %s not found", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenID]
	if !ok {
		return fmt.Errorf("refresh token %s not found", id)
	}
	token.Revoked = true
	s.tokens[tokenID] = token
	return nil
}
