package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

// EligibilityService decides whether a user may cast or update a vote in
// an election. userID may be uuid.Nil for an unauthenticated caller; the
// check then fails closed with reason "authentication required".
type EligibilityService interface {
	CanVote(ctx context.Context, electionID, userID uuid.UUID) (domain.Eligibility, error)
}
