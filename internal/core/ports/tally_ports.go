package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

type TallyService interface {
	ComputeResults(ctx context.Context, electionID uuid.UUID) (*domain.TallyResult, error)
}

// ResultRepository persists aggregate snapshots for display of closed
// elections without re-aggregating the ledger.
type ResultRepository interface {
	SnapshotVotes(ctx context.Context, electionID uuid.UUID) error
	// GetSnapshot returns the stored aggregate rows, empty when the
	// election was never snapshotted.
	GetSnapshot(ctx context.Context, electionID uuid.UUID) ([]domain.OptionTally, error)
}

type SnapshotService interface {
	SnapshotAll(ctx context.Context) error
}
