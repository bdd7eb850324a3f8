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
)

func TestSnapshotAllFreezesEveryElection(t *testing.T) {
	elections := memory.NewElectionStore()
	votes := memory.NewVoteStore()
	results := memory.NewResultStore(votes)
	svc := NewSnapshotService(elections, results)

	first := saveElection(t, elections, &domain.Election{IsOngoing: true})
	second := saveElection(t, elections, &domain.Election{IsOngoing: true})

	addLedgerVote(t, votes, first.ID, "yes", 2)
	addLedgerVote(t, votes, second.ID, "no", 1)

	require.NoError(t, svc.SnapshotAll(context.Background()))

	snapshot, err := results.GetSnapshot(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "yes", snapshot[0].Value)
	assert.Equal(t, int64(2), snapshot[0].Weight)
	assert.Equal(t, int64(1), snapshot[0].Ballots)

	snapshot, err = results.GetSnapshot(context.Background(), second.ID)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "no", snapshot[0].Value)
}

func TestSnapshotAllEmpty(t *testing.T) {
	votes := memory.NewVoteStore()
	svc := NewSnapshotService(memory.NewElectionStore(), memory.NewResultStore(votes))

	assert.NoError(t, svc.SnapshotAll(context.Background()))
}

func addLedgerVote(t *testing.T, votes *memory.VoteStore, electionID uuid.UUID, value string, weight int) {
	t.Helper()
	err := votes.CreateVoteWithRegistry(context.Background(), &domain.Vote{
		ID:         uuid.New(),
		ElectionID: electionID,
		Value:      value,
		Weight:     weight,
		VotedAt:    time.Now(),
	}, uuid.New())
	require.NoError(t, err)
}
