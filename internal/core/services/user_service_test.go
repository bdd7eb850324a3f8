package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/repository/memory"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

func TestUpdateIdentity(t *testing.T) {
	users := memory.NewUserStore()
	svc := NewUserService(users)
	user := saveUser(t, users, &domain.User{Email: "u@x.y"})

	updated, err := svc.UpdateIdentity(context.Background(), user.ID, ports.UpdateIdentityInput{
		Phone:            "5511999990000",
		PhoneCountryCode: "55",
		WorldIDVerified:  true,
		TelegramChatID:   42,
	})
	require.NoError(t, err)
	assert.Equal(t, "55", updated.PhoneCountryCode)
	assert.True(t, updated.WorldIDVerified)
	assert.Equal(t, int64(42), updated.TelegramChatID)

	// A zero chat id keeps the existing link.
	updated, err = svc.UpdateIdentity(context.Background(), user.ID, ports.UpdateIdentityInput{
		Phone:            "5511999990000",
		PhoneCountryCode: "55",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), updated.TelegramChatID)
	assert.False(t, updated.WorldIDVerified)
}

func TestUpdateIdentityUnknownUser(t *testing.T) {
	svc := NewUserService(memory.NewUserStore())

	_, err := svc.UpdateIdentity(context.Background(), uuid.New(), ports.UpdateIdentityInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
