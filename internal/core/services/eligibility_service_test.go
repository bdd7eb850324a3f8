package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/repository/memory"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

func newEligibilityFixture(t *testing.T) (*memory.ElectionStore, *memory.UserStore, ports.EligibilityService) {
	t.Helper()
	elections := memory.NewElectionStore()
	users := memory.NewUserStore()
	return elections, users, NewEligibilityService(elections, users)
}

func saveElection(t *testing.T, store *memory.ElectionStore, election *domain.Election) *domain.Election {
	t.Helper()
	if election.ID == uuid.Nil {
		election.ID = uuid.New()
	}
	if election.Status == "" {
		election.Status = domain.StatusActive
	}
	require.NoError(t, store.Save(context.Background(), election))
	return election
}

func saveUser(t *testing.T, store *memory.UserStore, user *domain.User) *domain.User {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestCanVoteOpenElection(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity:  domain.IdentityConfig{RestrictionType: domain.RestrictionOpen},
	})
	user := saveUser(t, users, &domain.User{Email: "any@example.com"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
}

func TestCanVoteAnonymousIsRejected(t *testing.T) {
	elections, _, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity:  domain.IdentityConfig{RestrictionType: domain.RestrictionOpen},
	})

	eligibility, err := svc.CanVote(context.Background(), election.ID, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, "authentication required", eligibility.Reason)
}

func TestCanVoteClosedElection(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	past := time.Now().Add(-time.Hour)
	election := saveElection(t, elections, &domain.Election{
		Identity: domain.IdentityConfig{RestrictionType: domain.RestrictionOpen},
		EndDate:  &past,
	})
	user := saveUser(t, users, &domain.User{Email: "late@example.com"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, "election is closed", eligibility.Reason)
}

func TestCanVoteEmailList(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity: domain.IdentityConfig{
			RestrictionType: domain.RestrictionEmailList,
			AllowList:       []string{"Alice@Example.com", "bob@example.com"},
		},
	})

	alice := saveUser(t, users, &domain.User{Email: "alice@example.com"})
	eve := saveUser(t, users, &domain.User{Email: "eve@example.com"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible, "email matching is case-insensitive")

	eligibility, err = svc.CanVote(context.Background(), election.ID, eve.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
}

func TestCanVoteDomainRestriction(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity: domain.IdentityConfig{
			RestrictionType: domain.RestrictionDomain,
			AllowList:       []string{"https://www.acme.org/"},
		},
	})

	insider := saveUser(t, users, &domain.User{Email: "dev@acme.org"})
	outsider := saveUser(t, users, &domain.User{Email: "dev@other.org"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, insider.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible, "scheme and www prefix are stripped from configured domains")

	eligibility, err = svc.CanVote(context.Background(), election.ID, outsider.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
}

func TestCanVoteCountryRestriction(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity: domain.IdentityConfig{
			RestrictionType: domain.RestrictionCountry,
			AllowList:       []string{"+55", "1"},
		},
	})

	brazilian := saveUser(t, users, &domain.User{Email: "a@b.c", PhoneCountryCode: "55"})
	american := saveUser(t, users, &domain.User{Email: "d@e.f", PhoneCountryCode: "+1"})
	unset := saveUser(t, users, &domain.User{Email: "g@h.i"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, brazilian.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)

	eligibility, err = svc.CanVote(context.Background(), election.ID, american.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)

	eligibility, err = svc.CanVote(context.Background(), election.ID, unset.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible, "users with no phone country fail closed")
}

func TestCanVoteWorldID(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity:  domain.IdentityConfig{RestrictionType: domain.RestrictionWorldID},
	})

	verified := saveUser(t, users, &domain.User{Email: "v@x.y", WorldIDVerified: true})
	unverified := saveUser(t, users, &domain.User{Email: "u@x.y"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, verified.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)

	eligibility, err = svc.CanVote(context.Background(), election.ID, unverified.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
}

func TestCanVoteUnknownRestrictionFailsClosed(t *testing.T) {
	elections, users, svc := newEligibilityFixture(t)
	election := saveElection(t, elections, &domain.Election{
		IsOngoing: true,
		Identity:  domain.IdentityConfig{RestrictionType: "retina-scan"},
	})
	user := saveUser(t, users, &domain.User{Email: "x@y.z"})

	eligibility, err := svc.CanVote(context.Background(), election.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
}

func TestCanVoteUnknownElection(t *testing.T) {
	_, _, svc := newEligibilityFixture(t)

	_, err := svc.CanVote(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}
