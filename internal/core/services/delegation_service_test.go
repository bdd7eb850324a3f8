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

type delegationFixture struct {
	store     *memory.DelegationStore
	elections *memory.ElectionStore
	users     *memory.UserStore
	svc       ports.DelegationService
}

func newDelegationFixture(t *testing.T) *delegationFixture {
	t.Helper()
	store := memory.NewDelegationStore()
	elections := memory.NewElectionStore()
	users := memory.NewUserStore()
	eligibility := NewEligibilityService(elections, users)
	return &delegationFixture{
		store:     store,
		elections: elections,
		users:     users,
		svc:       NewDelegationService(store, eligibility, nil),
	}
}

func TestDelegateRejectsSelf(t *testing.T) {
	f := newDelegationFixture(t)
	userID := uuid.New()

	_, err := f.svc.Delegate(context.Background(), userID, userID)
	assert.ErrorIs(t, err, domain.ErrSelfDelegation)
	assert.Equal(t, 0, f.store.RowCount(userID))
}

func TestDelegateRejectsAnonymous(t *testing.T) {
	f := newDelegationFixture(t)

	_, err := f.svc.Delegate(context.Background(), uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestDelegateSwitchKeepsOneActive(t *testing.T) {
	f := newDelegationFixture(t)
	delegator := uuid.New()
	first := uuid.New()
	second := uuid.New()

	d, err := f.svc.Delegate(context.Background(), delegator, first)
	require.NoError(t, err)
	assert.Equal(t, first, d.DelegateID)
	assert.True(t, d.Active)

	d, err = f.svc.Delegate(context.Background(), delegator, second)
	require.NoError(t, err)
	assert.Equal(t, second, d.DelegateID)

	assert.Equal(t, 1, f.store.ActiveCount(delegator))

	mine, err := f.svc.Mine(context.Background(), delegator)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, second, mine.DelegateID)
}

// Any sequence of delegate, switch and revoke calls must leave at most
// one active row and reuse deactivated rows instead of stacking new ones.
func TestDelegationSequenceInvariant(t *testing.T) {
	f := newDelegationFixture(t)
	delegator := uuid.New()
	a := uuid.New()
	b := uuid.New()

	ctx := context.Background()
	_, err := f.svc.Delegate(ctx, delegator, a)
	require.NoError(t, err)
	_, err = f.svc.Delegate(ctx, delegator, b)
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(ctx, delegator))
	_, err = f.svc.Delegate(ctx, delegator, a)
	require.NoError(t, err)
	_, err = f.svc.Delegate(ctx, delegator, b)
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.ActiveCount(delegator))
	assert.Equal(t, 2, f.store.RowCount(delegator), "re-delegating to a known delegate reactivates the existing row")
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newDelegationFixture(t)
	delegator := uuid.New()

	ctx := context.Background()
	require.NoError(t, f.svc.Revoke(ctx, delegator), "revoking with nothing active is a no-op")

	_, err := f.svc.Delegate(ctx, delegator, uuid.New())
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(ctx, delegator))
	require.NoError(t, f.svc.Revoke(ctx, delegator))

	assert.Equal(t, 0, f.store.ActiveCount(delegator))
	mine, err := f.svc.Mine(ctx, delegator)
	require.NoError(t, err)
	assert.Nil(t, mine)
}

func TestValidDelegatorsFiltersByEligibility(t *testing.T) {
	f := newDelegationFixture(t)
	ctx := context.Background()

	election := saveElection(t, f.elections, &domain.Election{
		IsOngoing: true,
		Identity: domain.IdentityConfig{
			RestrictionType: domain.RestrictionDomain,
			AllowList:       []string{"acme.org"},
		},
	})

	delegate := saveUser(t, f.users, &domain.User{Email: "delegate@acme.org"})
	eligible := saveUser(t, f.users, &domain.User{Email: "in@acme.org"})
	ineligible := saveUser(t, f.users, &domain.User{Email: "out@other.org"})

	_, err := f.svc.Delegate(ctx, eligible.ID, delegate.ID)
	require.NoError(t, err)
	_, err = f.svc.Delegate(ctx, ineligible.ID, delegate.ID)
	require.NoError(t, err)

	result, err := f.svc.ValidDelegators(ctx, delegate.ID, election.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []uuid.UUID{eligible.ID}, result.Delegators)
}

func TestValidDelegatorsIgnoresRevoked(t *testing.T) {
	f := newDelegationFixture(t)
	ctx := context.Background()

	election := saveElection(t, f.elections, &domain.Election{
		IsOngoing: true,
		Identity:  domain.IdentityConfig{RestrictionType: domain.RestrictionOpen},
	})

	delegate := saveUser(t, f.users, &domain.User{Email: "d@x.y"})
	delegator := saveUser(t, f.users, &domain.User{Email: "a@x.y"})

	_, err := f.svc.Delegate(ctx, delegator.ID, delegate.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(ctx, delegator.ID))

	result, err := f.svc.ValidDelegators(ctx, delegate.ID, election.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}

func TestDelegateNotifiesDelegate(t *testing.T) {
	store := memory.NewDelegationStore()
	elections := memory.NewElectionStore()
	users := memory.NewUserStore()
	notifications := memory.NewNotificationStore()
	eligibility := NewEligibilityService(elections, users)
	notificationSvc := NewNotificationService(notifications, users, nil)
	svc := NewDelegationService(store, eligibility, notificationSvc)

	delegator := uuid.New()
	delegate := uuid.New()

	ctx := context.Background()
	_, err := svc.Delegate(ctx, delegator, delegate)
	require.NoError(t, err)

	received, err := notifications.ListByUser(ctx, delegate)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, domain.NotifyDelegationReceived, received[0].Kind)

	require.NoError(t, svc.Revoke(ctx, delegator))
	received, err = notifications.ListByUser(ctx, delegate)
	require.NoError(t, err)
	require.Len(t, received, 2)
}
