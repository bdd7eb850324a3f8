package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

// VoteEvent signals that the ledger changed for an election. It carries
// no delta; consumers re-fetch authoritative state.
type VoteEvent struct {
	ElectionID uuid.UUID
}

type VoteEventBus interface {
	Publish(event VoteEvent)
	// Subscribe returns a receive channel and an unsubscribe func. The
	// channel is closed after unsubscribe.
	Subscribe() (<-chan VoteEvent, func())
}

// ResultStream delivers recomputed tallies for ongoing elections. The
// returned cancel func must be called on consumer teardown.
type ResultStream interface {
	SubscribeResults(ctx context.Context, electionID uuid.UUID) (<-chan *domain.TallyResult, func(), error)
}
