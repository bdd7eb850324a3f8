package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/repository/memory"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

func newDiscussionFixture(t *testing.T) (*memory.ElectionStore, ports.DiscussionService) {
	t.Helper()
	elections := memory.NewElectionStore()
	comments := memory.NewCommentStore()
	return elections, NewDiscussionService(elections, comments)
}

func TestPostCommentValidation(t *testing.T) {
	elections, svc := newDiscussionFixture(t)
	election := saveElection(t, elections, &domain.Election{IsOngoing: true})
	ctx := context.Background()

	_, err := svc.Post(ctx, ports.PostCommentInput{ElectionID: election.ID, AuthorID: uuid.Nil, Body: "hi"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	var verr *domain.ValidationError
	_, err = svc.Post(ctx, ports.PostCommentInput{ElectionID: election.ID, AuthorID: uuid.New(), Body: "   "})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Post(ctx, ports.PostCommentInput{ElectionID: election.ID, AuthorID: uuid.New(), Body: strings.Repeat("x", 2001)})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Post(ctx, ports.PostCommentInput{ElectionID: uuid.New(), AuthorID: uuid.New(), Body: "hi"})
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestReplyToReplyAttachesToRoot(t *testing.T) {
	elections, svc := newDiscussionFixture(t)
	election := saveElection(t, elections, &domain.Election{IsOngoing: true})
	ctx := context.Background()

	root, err := svc.Post(ctx, ports.PostCommentInput{ElectionID: election.ID, AuthorID: uuid.New(), Body: "root"})
	require.NoError(t, err)

	reply, err := svc.Post(ctx, ports.PostCommentInput{ElectionID: election.ID, AuthorID: uuid.New(), ParentID: &root.ID, Body: "reply"})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	nested, err := svc.Post(ctx, ports.PostCommentInput{ElectionID: election.ID, AuthorID: uuid.New(), ParentID: &reply.ID, Body: "reply to reply"})
	require.NoError(t, err)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, root.ID, *nested.ParentID, "threads stay one level deep")

	threads, err := svc.Threads(ctx, election.ID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, root.ID, threads[0].ID)
	assert.Len(t, threads[0].Replies, 2)
}

func TestPostReplyWrongElection(t *testing.T) {
	elections, svc := newDiscussionFixture(t)
	first := saveElection(t, elections, &domain.Election{IsOngoing: true})
	second := saveElection(t, elections, &domain.Election{IsOngoing: true})
	ctx := context.Background()

	root, err := svc.Post(ctx, ports.PostCommentInput{ElectionID: first.ID, AuthorID: uuid.New(), Body: "root"})
	require.NoError(t, err)

	_, err = svc.Post(ctx, ports.PostCommentInput{ElectionID: second.ID, AuthorID: uuid.New(), ParentID: &root.ID, Body: "cross"})
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}
